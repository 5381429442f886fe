package entities

import "time"

type Collection struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type Membership struct {
	CollectionID string    `db:"collection_id"`
	DocumentID   string    `db:"document_id"`
	AddedAt      time.Time `db:"added_at"`
}
