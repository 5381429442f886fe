package documents

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
	"strconv"
)

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dc DocumentCreator) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	var req dto.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	doc := &models.Document{
		ID:              req.ID,
		Title:           req.Title,
		Description:     req.Description,
		FileType:        req.FileType,
		StorageLocation: req.StorageLocation,
		ContentHash:     req.ContentHash,
		Size:            req.Size,
	}

	id, err := dc.AddDocument(ctx, caller, doc)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"id":      id,
			"version": int64(1),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, du DocumentUpdater) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	var req dto.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	version, err := du.UpdateDocument(ctx, caller, id, models.DocumentUpdate{
		Title:           req.Title,
		Description:     req.Description,
		StorageLocation: req.StorageLocation,
		ContentHash:     req.ContentHash,
		Size:            req.Size,
		ChangeNotes:     req.ChangeNotes,
	})
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"id":      id,
			"version": version,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, dd DocumentDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	caller := middleware.CallerIdentity(ctx)

	if err := dd.DeleteDocument(ctx, caller, id); err != nil {
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

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, dp DocumentProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	doc, err := dp.DocumentByID(ctx, id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": dto.DocumentResponse{
			ID:              doc.ID,
			OwnerID:         doc.OwnerID,
			Title:           doc.Title,
			Description:     doc.Description,
			FileType:        doc.FileType,
			StorageLocation: doc.StorageLocation,
			ContentHash:     doc.ContentHash,
			Size:            doc.Size,
			LatestVersion:   doc.LatestVersion,
			CreatedAt:       doc.CreatedAt,
			UpdatedAt:       doc.UpdatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func GetVersion(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, rawVersion string, dp DocumentProvider) {
	op := pkg + "GetVersion"

	log = log.With(slog.String("op", op))

	version, err := strconv.ParseInt(rawVersion, 10, 64)
	if err != nil {
		log.Warn("invalid version number", slog.String("version", rawVersion))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	ver, err := dp.VersionByNumber(ctx, id, version)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	response := map[string]any{
		"data": dto.VersionResponse{
			DocumentID:      ver.DocumentID,
			Version:         ver.Version,
			ContentHash:     ver.ContentHash,
			StorageLocation: ver.StorageLocation,
			ChangeNotes:     ver.ChangeNotes,
			UpdatedBy:       ver.UpdatedBy,
			UpdatedAt:       ver.UpdatedAt,
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
		log.Warn("invalid access query", slog.String("doc_id", id))
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
	case errors.Is(err, models.ErrDocumentNotFound):
		httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
	case errors.Is(err, models.ErrVersionNotFound):
		httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrVersionNotFound.Error())
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
