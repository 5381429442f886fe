package documentservice

import (
	"context"
	"docregistry/internal/models"
	"docregistry/internal/permissions"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

type DocumentService struct {
	log     *slog.Logger
	docRepo DocumentRepository
	cache   Cache
	clock   Clock
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	cache Cache,
	clock Clock,
) *DocumentService {
	return &DocumentService{
		log:     log,
		docRepo: docRepo,
		cache:   cache,
		clock:   clock,
	}
}

// AddDocument registers a document owned by the caller and writes version 1
// atomically with it. The registry stores only the storage location and the
// content hash; it never checks that the referenced content exists.
func (ds *DocumentService) AddDocument(ctx context.Context, caller string, doc *models.Document) (string, error) {
	op := pkg + "AddDocument"

	log := ds.log.With(slog.String("op", op))

	if doc.ID == "" {
		doc.ID = uuid.NewV4().String()
	}

	if err := validateDocumentInput(doc); err != nil {
		log.Warn("invalid document params", slog.String("doc_id", doc.ID))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	now := ds.clock.Now()

	doc.OwnerID = caller
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.LatestVersion = 1

	ver := &models.DocumentVersion{
		DocumentID:      doc.ID,
		Version:         1,
		ContentHash:     doc.ContentHash,
		StorageLocation: doc.StorageLocation,
		ChangeNotes:     models.InitialVersionNotes,
		UpdatedBy:       caller,
		UpdatedAt:       now,
	}

	if err := ds.docRepo.CreateDocument(ctx, doc, ver); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("document id taken", slog.String("doc_id", doc.ID))
			return "", fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		log.Error("failed to create document", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document created", slog.String("doc_id", doc.ID), slog.String("owner", caller))

	return doc.ID, nil
}

// UpdateDocument replaces the mutable metadata and appends the next version.
// Requires ownership or an EDIT-or-above grant. Returns the new version
// number; id, owner and created_at are preserved.
func (ds *DocumentService) UpdateDocument(ctx context.Context, caller string, id string, upd models.DocumentUpdate) (int64, error) {
	op := pkg + "UpdateDocument"

	log := ds.log.With(slog.String("op", op))

	if err := validateUpdateInput(upd); err != nil {
		log.Warn("invalid update params", slog.String("doc_id", id))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", id))
			return 0, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ok, err := permissions.Has(ctx, ds.docRepo, id, doc, caller, models.PermissionEdit)
	if err != nil {
		log.Error("permission check failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}
	if !ok {
		log.Warn("caller lacks edit permission", slog.String("doc_id", id), slog.String("caller", caller))
		return 0, fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	newVersion, err := ds.docRepo.UpdateDocument(ctx, id, upd, caller, ds.clock.Now())
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to update document", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, docCacheKey(id)); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document updated",
		slog.String("doc_id", id),
		slog.Int64("version", newVersion),
		slog.String("updated_by", caller))

	return newVersion, nil
}

// DeleteDocument removes the primary record. Strictly owner-only: grants do
// not suffice. Versions, memberships and grants survive as orphans, so the
// audit trail outlives the document.
func (ds *DocumentService) DeleteDocument(ctx context.Context, caller string, id string) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if doc.OwnerID != caller {
		log.Warn("caller is not the owner", slog.String("doc_id", id), slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := ds.docRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, docCacheKey(id)); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document deleted", slog.String("doc_id", id))

	return nil
}

// DocumentByID is an unrestricted metadata read.
func (ds *DocumentService) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	cacheKey := docCacheKey(id)

	docJSON, err := ds.cache.Get(ctx, cacheKey)
	if err == nil && docJSON != "" {
		var doc models.Document
		if err := json.Unmarshal([]byte(docJSON), &doc); err == nil {
			return &doc, nil
		}
		log.Warn("failed to decode cached document", slog.String("doc_id", id))
	}

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if raw, err := json.Marshal(doc); err == nil {
		if err := ds.cache.Set(ctx, cacheKey, string(raw)); err != nil {
			log.Warn("failed to cache document", slog.String("error", err.Error()))
		}
	}

	return doc, nil
}

// VersionByNumber returns a version record. Version rows are immutable and
// outlive document deletion, so this read never consults the documents table.
func (ds *DocumentService) VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error) {
	op := pkg + "VersionByNumber"

	log := ds.log.With(slog.String("op", op))

	if version < 1 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	ver, err := ds.docRepo.VersionByNumber(ctx, id, version)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrVersionNotFound)
		}
		log.Error("failed to get document version", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return ver, nil
}

// GrantPermission upserts an explicit grant. Strictly owner-only: ADMIN
// grantees cannot grant further, which closes privilege-escalation chains.
func (ds *DocumentService) GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error {
	op := pkg + "GrantPermission"

	log := ds.log.With(slog.String("op", op))

	if !level.Valid() {
		log.Warn("invalid permission level", slog.Int("level", int(level)))
		return fmt.Errorf("%s: %w", op, models.ErrUnknownPermissionLevel)
	}

	if identity == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if doc.OwnerID != caller {
		log.Warn("caller is not the owner", slog.String("doc_id", id), slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := ds.docRepo.UpsertGrant(ctx, id, identity, level); err != nil {
		log.Error("failed to upsert grant", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document permission granted",
		slog.String("doc_id", id),
		slog.String("identity", identity),
		slog.String("level", level.String()))

	return nil
}

// HasPermission answers whether identity satisfies the required level on the
// document. An absent document is false, never an error.
func (ds *DocumentService) HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error) {
	op := pkg + "HasPermission"

	doc, err := ds.docRepo.DocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ok, err := permissions.Has(ctx, ds.docRepo, id, doc, identity, required)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return ok, nil
}

func docCacheKey(id string) string {
	return "doc:" + id
}

func validateDocumentInput(doc *models.Document) error {
	if doc.ID == "" || len(doc.ID) > models.MaxIDLen {
		return models.ErrInvalidParams
	}
	if doc.Title == "" || len(doc.Title) > models.MaxTitleLen {
		return models.ErrInvalidParams
	}
	if len(doc.Description) > models.MaxDescriptionLen {
		return models.ErrInvalidParams
	}
	if doc.FileType == "" || len(doc.FileType) > models.MaxFileTypeLen {
		return models.ErrInvalidParams
	}
	if doc.StorageLocation == "" || len(doc.StorageLocation) > models.MaxLocationLen {
		return models.ErrInvalidParams
	}
	if !validContentHash(doc.ContentHash) {
		return models.ErrInvalidParams
	}
	if doc.Size < 0 {
		return models.ErrInvalidParams
	}
	return nil
}

func validateUpdateInput(upd models.DocumentUpdate) error {
	if upd.Title == "" || len(upd.Title) > models.MaxTitleLen {
		return models.ErrInvalidParams
	}
	if len(upd.Description) > models.MaxDescriptionLen {
		return models.ErrInvalidParams
	}
	if upd.StorageLocation == "" || len(upd.StorageLocation) > models.MaxLocationLen {
		return models.ErrInvalidParams
	}
	if !validContentHash(upd.ContentHash) {
		return models.ErrInvalidParams
	}
	if upd.Size < 0 {
		return models.ErrInvalidParams
	}
	if len(upd.ChangeNotes) > models.MaxChangeNotesLen {
		return models.ErrInvalidParams
	}
	return nil
}

// validContentHash expects the hex form of a 32-byte digest.
func validContentHash(h string) bool {
	if len(h) != models.ContentHashLen {
		return false
	}
	for _, c := range h {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
