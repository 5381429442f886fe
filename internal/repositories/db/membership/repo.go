package membershiprepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const pkg = "membershipRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Add records the association. Re-adding an existing member is a no-op, so
// added_at keeps the timestamp of the first add.
func (r *repository) Add(ctx context.Context, collectionID string, documentID string, addedAt time.Time) error {
	op := pkg + "Add"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collection_documents (collection_id, document_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection_id, document_id) DO NOTHING`,
		collectionID, documentID, addedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Remove deletes the association. Removing a non-member is a no-op.
func (r *repository) Remove(ctx context.Context, collectionID string, documentID string) error {
	op := pkg + "Remove"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM collection_documents
		WHERE collection_id = $1 AND document_id = $2`,
		collectionID, documentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DocumentIDs lists member document ids in insertion order.
func (r *repository) DocumentIDs(ctx context.Context, collectionID string) ([]string, error) {
	op := pkg + "DocumentIDs"

	ids := make([]string, 0)

	err := r.db.SelectContext(ctx, &ids,
		`SELECT m.document_id
		FROM collection_documents m
		WHERE m.collection_id = $1
		ORDER BY m.added_at ASC, m.document_id ASC`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}
