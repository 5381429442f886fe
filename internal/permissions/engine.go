package permissions

import (
	"context"
	"docregistry/internal/models"
	"errors"
	"fmt"
)

const pkg = "permissions/"

// Resource is the slice of a collection or document the engine needs: who
// owns it. A nil Resource means the resource does not exist.
type Resource interface {
	ResourceOwner() string
}

// GrantSource looks up the explicit grant level for (resourceID, identity).
// Implementations report models.ErrNotAuthorized, a not-found sentinel or
// return PermissionNone when no grant exists.
type GrantSource interface {
	PermissionLevel(ctx context.Context, resourceID string, identity string) (models.PermissionLevel, error)
}

// Has reports whether identity satisfies required on the given resource.
//
// The check is two steps: ownership first (the owner passes at any level,
// including levels above any explicit grant it may also hold), then a fresh
// grant lookup. Grants are never cached here; every call re-reads the source.
func Has(ctx context.Context, grants GrantSource, resourceID string, res Resource, identity string, required models.PermissionLevel) (bool, error) {
	op := pkg + "Has"

	if res == nil || identity == "" {
		return false, nil
	}

	if res.ResourceOwner() == identity {
		return true, nil
	}

	level, err := grants.PermissionLevel(ctx, resourceID, identity)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) || errors.Is(err, models.ErrDocumentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return level >= required, nil
}
