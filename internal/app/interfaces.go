package app

import (
	"context"
	"docregistry/internal/models"
)

type CollectionService interface {
	CreateCollection(ctx context.Context, caller string, id string, name string, description string) (string, error)
	DeleteCollection(ctx context.Context, caller string, id string) error
	CollectionByID(ctx context.Context, id string) (*models.Collection, error)
	GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error
	HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error)
}

type DocumentService interface {
	AddDocument(ctx context.Context, caller string, doc *models.Document) (string, error)
	UpdateDocument(ctx context.Context, caller string, id string, upd models.DocumentUpdate) (int64, error)
	DeleteDocument(ctx context.Context, caller string, id string) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error)
	GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error
	HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error)
}

type MembershipService interface {
	AddDocument(ctx context.Context, caller string, collectionID string, documentID string) error
	RemoveDocument(ctx context.Context, caller string, collectionID string, documentID string) error
	DocumentIDs(ctx context.Context, collectionID string) ([]string, error)
}
