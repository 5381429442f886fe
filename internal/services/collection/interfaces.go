package collectionservice

import (
	"context"
	"docregistry/internal/models"
	"time"
)

type CollectionRepository interface {
	CreateCollection(ctx context.Context, col *models.Collection) error
	CollectionByID(ctx context.Context, id string) (*models.Collection, error)
	Delete(ctx context.Context, id string) error
	UpsertGrant(ctx context.Context, collectionID string, identity string, level models.PermissionLevel) error
	PermissionLevel(ctx context.Context, collectionID string, identity string) (models.PermissionLevel, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type Clock interface {
	Now() time.Time
}
