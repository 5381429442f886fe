package models

import "time"

type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResourceOwner makes Collection usable by the permission engine.
func (c *Collection) ResourceOwner() string {
	if c == nil {
		return ""
	}
	return c.OwnerID
}

// Membership records that a document belongs to a collection. The pair of ids
// is the whole of its meaning; added_at exists for auditing only.
type Membership struct {
	CollectionID string    `json:"collection_id"`
	DocumentID   string    `json:"document_id"`
	AddedAt      time.Time `json:"added_at"`
}
