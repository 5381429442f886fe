package models

import "time"

const (
	MaxIDLen          = 36
	MaxTitleLen       = 128
	MaxNameLen        = 64
	MaxDescriptionLen = 256
	MaxFileTypeLen    = 16
	MaxLocationLen    = 256
	MaxChangeNotesLen = 256

	// ContentHashLen is the hex length of a 32-byte digest.
	ContentHashLen = 64

	InitialVersionNotes = "Initial version"
)

type Document struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	FileType        string    `json:"file_type"`
	StorageLocation string    `json:"storage_location"`
	ContentHash     string    `json:"content_hash"`
	Size            int64     `json:"size"`
	LatestVersion   int64     `json:"latest_version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ResourceOwner makes Document usable by the permission engine.
func (d *Document) ResourceOwner() string {
	if d == nil {
		return ""
	}
	return d.OwnerID
}

type DocumentVersion struct {
	DocumentID      string    `json:"document_id"`
	Version         int64     `json:"version"`
	ContentHash     string    `json:"content_hash"`
	StorageLocation string    `json:"storage_location"`
	ChangeNotes     string    `json:"change_notes,omitempty"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DocumentUpdate carries the mutable fields of a document for updateDocument.
// ID, owner and created_at are never touched by an update.
type DocumentUpdate struct {
	Title           string
	Description     string
	StorageLocation string
	ContentHash     string
	Size            int64
	ChangeNotes     string
}
