package documentrepo

import (
	"context"
	"database/sql"
	"docregistry/internal/entities"
	"docregistry/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// CreateDocument inserts the document row and its first version in one
// transaction. Either both land or neither does.
func (r *repository) CreateDocument(ctx context.Context, doc *models.Document, ver *models.DocumentVersion) error {
	op := pkg + "CreateDocument"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, title, description, file_type, storage_location, content_hash, size, latest_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Description, doc.FileType,
		doc.StorageLocation, doc.ContentHash, doc.Size, doc.LatestVersion,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (document_id, version, content_hash, storage_location, change_notes, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ver.DocumentID, ver.Version, ver.ContentHash, ver.StorageLocation,
		ver.ChangeNotes, ver.UpdatedBy, ver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.owner_id AS owner_id,
			d.title AS title,
			d.description AS description,
			d.file_type AS file_type,
			d.storage_location AS storage_location,
			d.content_hash AS content_hash,
			d.size AS size,
			d.latest_version AS latest_version,
			d.created_at AS created_at,
			d.updated_at AS updated_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromEntity(&rawDoc), nil
}

// UpdateDocument bumps the version counter and appends the matching version
// row in one transaction. The row lock taken by FOR UPDATE serializes
// concurrent updates to the same document, so latest_version moves by exactly
// one per committed call.
func (r *repository) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate, updatedBy string, updatedAt time.Time) (int64, error) {
	op := pkg + "UpdateDocument"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var latest int64

	err = tx.GetContext(ctx, &latest,
		`SELECT d.latest_version FROM documents d WHERE d.id = $1 FOR UPDATE`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	newVersion := latest + 1

	_, err = tx.ExecContext(ctx,
		`UPDATE documents
		SET title = $2, description = $3, storage_location = $4, content_hash = $5, size = $6, latest_version = $7, updated_at = $8
		WHERE id = $1`,
		id, upd.Title, upd.Description, upd.StorageLocation, upd.ContentHash,
		upd.Size, newVersion, updatedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (document_id, version, content_hash, storage_location, change_notes, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, newVersion, upd.ContentHash, upd.StorageLocation, upd.ChangeNotes,
		updatedBy, updatedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return newVersion, nil
}

// Delete removes the primary document row only. Versions, memberships and
// grants stay behind as orphans.
func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error) {
	op := pkg + "VersionByNumber"

	rawVer := entities.DocumentVersion{}

	err := r.db.GetContext(ctx, &rawVer,
		`SELECT
			v.document_id AS document_id,
			v.version AS version,
			v.content_hash AS content_hash,
			v.storage_location AS storage_location,
			v.change_notes AS change_notes,
			v.updated_by AS updated_by,
			v.updated_at AS updated_at
		FROM document_versions v
		WHERE v.document_id = $1 AND v.version = $2`,
		id, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrVersionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.DocumentVersion{
		DocumentID:      rawVer.DocumentID,
		Version:         rawVer.Version,
		ContentHash:     rawVer.ContentHash,
		StorageLocation: rawVer.StorageLocation,
		ChangeNotes:     rawVer.ChangeNotes,
		UpdatedBy:       rawVer.UpdatedBy,
		UpdatedAt:       rawVer.UpdatedAt,
	}, nil
}

func (r *repository) UpsertGrant(ctx context.Context, documentID string, identity string, level models.PermissionLevel) error {
	op := pkg + "UpsertGrant"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_grants (document_id, identity, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_id, identity) DO UPDATE SET level = EXCLUDED.level`,
		documentID, identity, int(level))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PermissionLevel returns the explicit grant level for the identity. A missing
// grant is PermissionNone, not an error.
func (r *repository) PermissionLevel(ctx context.Context, documentID string, identity string) (models.PermissionLevel, error) {
	op := pkg + "PermissionLevel"

	var level int

	err := r.db.GetContext(ctx, &level,
		`SELECT g.level
		FROM document_grants g
		WHERE g.document_id = $1 AND g.identity = $2`,
		documentID, identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PermissionNone, nil
		}
		return models.PermissionNone, fmt.Errorf("%s: %w", op, err)
	}

	return models.PermissionLevel(level), nil
}

func docFromEntity(rawDoc *entities.Document) *models.Document {
	return &models.Document{
		ID:              rawDoc.ID,
		OwnerID:         rawDoc.OwnerID,
		Title:           rawDoc.Title,
		Description:     rawDoc.Description,
		FileType:        rawDoc.FileType,
		StorageLocation: rawDoc.StorageLocation,
		ContentHash:     rawDoc.ContentHash,
		Size:            rawDoc.Size,
		LatestVersion:   rawDoc.LatestVersion,
		CreatedAt:       rawDoc.CreatedAt,
		UpdatedAt:       rawDoc.UpdatedAt,
	}
}
