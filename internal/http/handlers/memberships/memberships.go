package memberships

import (
	"context"
	"docregistry/internal/http/middleware"
	"docregistry/internal/models"
	"docregistry/internal/utils/httperrors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, collectionID string, documentID string, mm MembershipManager) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	if err := mm.AddDocument(ctx, caller, collectionID, documentID); err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"collection_id": collectionID,
			"document_id":   documentID,
			"member":        true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Remove(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, collectionID string, documentID string, mm MembershipManager) {
	op := pkg + "Remove"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	if err := mm.RemoveDocument(ctx, caller, collectionID, documentID); err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"collection_id": collectionID,
			"document_id":   documentID,
			"member":        false,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, collectionID string, ml MembershipLister) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	ids, err := ml.DocumentIDs(ctx, collectionID)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"collection_id": collectionID,
			"document_ids":  ids,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCollectionNotFound):
		httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrCollectionNotFound.Error())
	case errors.Is(err, models.ErrDocumentNotFound):
		httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
	case errors.Is(err, models.ErrNotAuthorized):
		httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrNotAuthorized.Error())
	case errors.Is(err, models.ErrInvalidParams):
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
	default:
		log.Error("unexpected service error", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
