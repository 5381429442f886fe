package entities

import "time"

type Document struct {
	ID              string    `db:"id"`
	OwnerID         string    `db:"owner_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	FileType        string    `db:"file_type"`
	StorageLocation string    `db:"storage_location"`
	ContentHash     string    `db:"content_hash"`
	Size            int64     `db:"size"`
	LatestVersion   int64     `db:"latest_version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type DocumentVersion struct {
	DocumentID      string    `db:"document_id"`
	Version         int64     `db:"version"`
	ContentHash     string    `db:"content_hash"`
	StorageLocation string    `db:"storage_location"`
	ChangeNotes     string    `db:"change_notes"`
	UpdatedBy       string    `db:"updated_by"`
	UpdatedAt       time.Time `db:"updated_at"`
}
