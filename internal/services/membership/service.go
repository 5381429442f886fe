package membershipservice

import (
	"context"
	"docregistry/internal/models"
	"docregistry/internal/permissions"
	"errors"
	"fmt"
	"log/slog"
)

const pkg = "membershipService/"

type MembershipService struct {
	log     *slog.Logger
	memRepo MembershipRepository
	cols    CollectionProvider
	docs    DocumentProvider
	clock   Clock
}

func New(
	log *slog.Logger,
	memRepo MembershipRepository,
	cols CollectionProvider,
	docs DocumentProvider,
	clock Clock,
) *MembershipService {
	return &MembershipService{
		log:     log,
		memRepo: memRepo,
		cols:    cols,
		docs:    docs,
		clock:   clock,
	}
}

// AddDocument associates a document with a collection. The caller must hold
// EDIT-or-above on the collection AND the document independently. Re-adding
// an existing member succeeds without touching state.
func (ms *MembershipService) AddDocument(ctx context.Context, caller string, collectionID string, documentID string) error {
	op := pkg + "AddDocument"

	log := ms.log.With(slog.String("op", op))

	col, doc, err := ms.loadPair(ctx, log, collectionID, documentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	colOK, err := permissions.Has(ctx, ms.cols, collectionID, col, caller, models.PermissionEdit)
	if err != nil {
		log.Error("collection permission check failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docOK, err := permissions.Has(ctx, ms.docs, documentID, doc, caller, models.PermissionEdit)
	if err != nil {
		log.Error("document permission check failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !colOK || !docOK {
		log.Warn("caller lacks edit permission on both resources",
			slog.String("collection_id", collectionID),
			slog.String("doc_id", documentID),
			slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := ms.memRepo.Add(ctx, collectionID, documentID, ms.clock.Now()); err != nil {
		log.Error("failed to add membership", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document added to collection",
		slog.String("collection_id", collectionID),
		slog.String("doc_id", documentID))

	return nil
}

// RemoveDocument drops the association. Looser than AddDocument: EDIT-or-above
// on EITHER resource suffices. Removing a non-member succeeds without
// touching state.
func (ms *MembershipService) RemoveDocument(ctx context.Context, caller string, collectionID string, documentID string) error {
	op := pkg + "RemoveDocument"

	log := ms.log.With(slog.String("op", op))

	col, doc, err := ms.loadPair(ctx, log, collectionID, documentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	colOK, err := permissions.Has(ctx, ms.cols, collectionID, col, caller, models.PermissionEdit)
	if err != nil {
		log.Error("collection permission check failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docOK, err := permissions.Has(ctx, ms.docs, documentID, doc, caller, models.PermissionEdit)
	if err != nil {
		log.Error("document permission check failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !colOK && !docOK {
		log.Warn("caller lacks edit permission on either resource",
			slog.String("collection_id", collectionID),
			slog.String("doc_id", documentID),
			slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := ms.memRepo.Remove(ctx, collectionID, documentID); err != nil {
		log.Error("failed to remove membership", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document removed from collection",
		slog.String("collection_id", collectionID),
		slog.String("doc_id", documentID))

	return nil
}

// DocumentIDs lists the member document ids of a collection in insertion
// order. Unrestricted, like the other metadata reads.
func (ms *MembershipService) DocumentIDs(ctx context.Context, collectionID string) ([]string, error) {
	op := pkg + "DocumentIDs"

	log := ms.log.With(slog.String("op", op))

	if _, err := ms.cols.CollectionByID(ctx, collectionID); err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrCollectionNotFound)
		}
		log.Error("failed to get collection", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ids, err := ms.memRepo.DocumentIDs(ctx, collectionID)
	if err != nil {
		log.Error("failed to list members", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return ids, nil
}

func (ms *MembershipService) loadPair(ctx context.Context, log *slog.Logger, collectionID string, documentID string) (*models.Collection, *models.Document, error) {
	col, err := ms.cols.CollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			log.Warn("collection not found", slog.String("collection_id", collectionID))
			return nil, nil, models.ErrCollectionNotFound
		}
		log.Error("failed to get collection", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	doc, err := ms.docs.DocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", documentID))
			return nil, nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	return col, doc, nil
}
