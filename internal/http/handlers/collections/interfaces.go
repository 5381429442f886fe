package collections

import (
	"context"
	"docregistry/internal/models"
)

const pkg = "collectionsHandler/"

type CollectionCreator interface {
	CreateCollection(ctx context.Context, caller string, id string, name string, description string) (string, error)
}

type CollectionProvider interface {
	CollectionByID(ctx context.Context, id string) (*models.Collection, error)
}

type CollectionDeleter interface {
	DeleteCollection(ctx context.Context, caller string, id string) error
}

type PermissionGranter interface {
	GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error
}

type PermissionChecker interface {
	HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error)
}
