package documentservice

import (
	"context"
	"docregistry/internal/models"
	"time"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document, ver *models.DocumentVersion) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate, updatedBy string, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error)
	UpsertGrant(ctx context.Context, documentID string, identity string, level models.PermissionLevel) error
	PermissionLevel(ctx context.Context, documentID string, identity string) (models.PermissionLevel, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type Clock interface {
	Now() time.Time
}
