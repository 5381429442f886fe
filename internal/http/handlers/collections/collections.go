package collections

import (
	"context"
	"docregistry/internal/dto"
	"docregistry/internal/http/middleware"
	"docregistry/internal/models"
	"docregistry/internal/utils/httperrors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, cc CollectionCreator) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	var req dto.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	id, err := cc.CreateCollection(ctx, caller, req.ID, req.Name, req.Description)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"id": id,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, cp CollectionProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	col, err := cp.CollectionByID(ctx, id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": dto.CollectionResponse{
			ID:          col.ID,
			OwnerID:     col.OwnerID,
			Name:        col.Name,
			Description: col.Description,
			CreatedAt:   col.CreatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, cd CollectionDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	if err := cd.DeleteCollection(ctx, caller, id); err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"deleted": id,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Grant(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, pg PermissionGranter) {
	op := pkg + "Grant"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	var req dto.GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := pg.GrantPermission(ctx, caller, id, req.Identity, models.PermissionLevel(req.Level)); err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"granted": req.Identity,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Access(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, pc PermissionChecker) {
	op := pkg + "Access"

	log = log.With(slog.String("op", op))

	identity := r.URL.Query().Get("identity")

	level, err := models.ParsePermissionLevel(r.URL.Query().Get("level"))
	if err != nil || identity == "" {
		log.Warn("invalid access query", slog.String("collection_id", id))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	allowed, err := pc.HasPermission(ctx, id, identity, level)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"allowed": allowed,
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
	case errors.Is(err, models.ErrNotAuthorized):
		httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrNotAuthorized.Error())
	case errors.Is(err, models.ErrAlreadyExists):
		httperrors.WriteJSONError(w, http.StatusConflict, models.ErrAlreadyExists.Error())
	case errors.Is(err, models.ErrUnknownPermissionLevel):
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrUnknownPermissionLevel.Error())
	case errors.Is(err, models.ErrInvalidParams):
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
	default:
		log.Error("unexpected service error", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
