package membershipservice

import (
	"context"
	"docregistry/internal/models"
	"time"
)

type MembershipRepository interface {
	Add(ctx context.Context, collectionID string, documentID string, addedAt time.Time) error
	Remove(ctx context.Context, collectionID string, documentID string) error
	DocumentIDs(ctx context.Context, collectionID string) ([]string, error)
}

type CollectionProvider interface {
	CollectionByID(ctx context.Context, id string) (*models.Collection, error)
	PermissionLevel(ctx context.Context, collectionID string, identity string) (models.PermissionLevel, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	PermissionLevel(ctx context.Context, documentID string, identity string) (models.PermissionLevel, error)
}

type Clock interface {
	Now() time.Time
}
