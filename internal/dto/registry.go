package dto

import "time"

type CreateCollectionRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CollectionResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created"`
}

type CreateDocumentRequest struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	FileType        string `json:"file_type"`
	StorageLocation string `json:"storage_location"`
	ContentHash     string `json:"content_hash"`
	Size            int64  `json:"size"`
}

type UpdateDocumentRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	StorageLocation string `json:"storage_location"`
	ContentHash     string `json:"content_hash"`
	Size            int64  `json:"size"`
	ChangeNotes     string `json:"change_notes,omitempty"`
}

type DocumentResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	FileType        string    `json:"file_type"`
	StorageLocation string    `json:"storage_location"`
	ContentHash     string    `json:"content_hash"`
	Size            int64     `json:"size"`
	LatestVersion   int64     `json:"latest_version"`
	CreatedAt       time.Time `json:"created"`
	UpdatedAt       time.Time `json:"updated"`
}

type VersionResponse struct {
	DocumentID      string    `json:"document_id"`
	Version         int64     `json:"version"`
	ContentHash     string    `json:"content_hash"`
	StorageLocation string    `json:"storage_location"`
	ChangeNotes     string    `json:"change_notes,omitempty"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedAt       time.Time `json:"updated"`
}

type GrantRequest struct {
	Identity string `json:"identity"`
	Level    int    `json:"level"`
}
