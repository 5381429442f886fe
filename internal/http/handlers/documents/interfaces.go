package documents

import (
	"context"
	"docregistry/internal/models"
)

const pkg = "documentsHandler/"

type DocumentCreator interface {
	AddDocument(ctx context.Context, caller string, doc *models.Document) (string, error)
}

type DocumentUpdater interface {
	UpdateDocument(ctx context.Context, caller string, id string, upd models.DocumentUpdate) (int64, error)
}

type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, caller string, id string) error
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error)
}

type PermissionGranter interface {
	GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error)
}
