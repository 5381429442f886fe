package collectionrepo

import (
	"context"
	"database/sql"
	"docregistry/internal/entities"
	"docregistry/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "collectionRepo/"

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateCollection(ctx context.Context, col *models.Collection) error {
	op := pkg + "CreateCollection"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collections (id, owner_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		col.ID, col.OwnerID, col.Name, col.Description, col.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) CollectionByID(ctx context.Context, id string) (*models.Collection, error) {
	op := pkg + "CollectionByID"

	rawCol := entities.Collection{}

	err := r.db.GetContext(ctx, &rawCol,
		`SELECT
			c.id AS id,
			c.owner_id AS owner_id,
			c.name AS name,
			c.description AS description,
			c.created_at AS created_at
		FROM collections c
		WHERE c.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Collection{
		ID:          rawCol.ID,
		OwnerID:     rawCol.OwnerID,
		Name:        rawCol.Name,
		Description: rawCol.Description,
		CreatedAt:   rawCol.CreatedAt,
	}, nil
}

// Delete removes the primary collection row only. Memberships and grants that
// reference the id stay behind as orphans.
func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM collections WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UpsertGrant(ctx context.Context, collectionID string, identity string, level models.PermissionLevel) error {
	op := pkg + "UpsertGrant"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collection_grants (collection_id, identity, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, identity) DO UPDATE SET level = EXCLUDED.level`,
		collectionID, identity, int(level))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PermissionLevel returns the explicit grant level for the identity. A missing
// grant is PermissionNone, not an error.
func (r *repository) PermissionLevel(ctx context.Context, collectionID string, identity string) (models.PermissionLevel, error) {
	op := pkg + "PermissionLevel"

	var level int

	err := r.db.GetContext(ctx, &level,
		`SELECT g.level
		FROM collection_grants g
		WHERE g.collection_id = $1 AND g.identity = $2`,
		collectionID, identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PermissionNone, nil
		}
		return models.PermissionNone, fmt.Errorf("%s: %w", op, err)
	}

	return models.PermissionLevel(level), nil
}
