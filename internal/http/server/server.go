package server

import (
	"context"
	"docregistry/internal/config"
	"docregistry/internal/http/handlers/collections"
	"docregistry/internal/http/handlers/documents"
	"docregistry/internal/http/handlers/memberships"
	"docregistry/internal/http/middleware"
	"docregistry/internal/models"
	"docregistry/internal/obs"
	"docregistry/internal/utils/httperrors"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	collectionService CollectionService,
	documentService DocumentService,
	membershipService MembershipService,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))
	r.Use(obs.Instrument)
	if cfg.RateLimitPerSecond > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	setupRoutes(r, log, collectionService, documentService, membershipService)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(r *mux.Router, log *slog.Logger, cs CollectionService, ds DocumentService, ms MembershipService) {
	r.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	// Metadata reads are unrestricted: only mutations require a caller
	// identity.

	// GET collection by id
	r.HandleFunc("/api/collections/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		collections.GetByID(ctx, log, w, r, vars["id"], cs)
	}).Methods(http.MethodGet)

	// GET collection access check
	r.HandleFunc("/api/collections/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		collections.Access(ctx, log, w, r, vars["id"], cs)
	}).Methods(http.MethodGet)

	// GET collection members
	r.HandleFunc("/api/collections/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		memberships.List(ctx, log, w, r, vars["id"], ms)
	}).Methods(http.MethodGet)

	// GET document by id
	r.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.GetByID(ctx, log, w, r, vars["id"], ds)
	}).Methods(http.MethodGet)

	// GET document version
	r.HandleFunc("/api/documents/{id}/versions/{version}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.GetVersion(ctx, log, w, r, vars["id"], vars["version"], ds)
	}).Methods(http.MethodGet)

	// GET document access check
	r.HandleFunc("/api/documents/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.Access(ctx, log, w, r, vars["id"], ds)
	}).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Identity(log))

	// POST collection
	protected.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		collections.Create(ctx, log, w, r, cs)
	}).Methods(http.MethodPost)

	// DELETE collection
	protected.HandleFunc("/api/collections/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		collections.Delete(ctx, log, w, r, vars["id"], cs)
	}).Methods(http.MethodDelete)

	// POST collection permission grant
	protected.HandleFunc("/api/collections/{id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		collections.Grant(ctx, log, w, r, vars["id"], cs)
	}).Methods(http.MethodPost)

	// POST document
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		documents.Create(ctx, log, w, r, ds)
	}).Methods(http.MethodPost)

	// PUT document (new version)
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.Update(ctx, log, w, r, vars["id"], ds)
	}).Methods(http.MethodPut)

	// DELETE document
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.Delete(ctx, log, w, r, vars["id"], ds)
	}).Methods(http.MethodDelete)

	// POST document permission grant
	protected.HandleFunc("/api/documents/{id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		documents.Grant(ctx, log, w, r, vars["id"], ds)
	}).Methods(http.MethodPost)

	// PUT membership
	protected.HandleFunc("/api/collections/{id}/documents/{docID}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		memberships.Add(ctx, log, w, r, vars["id"], vars["docID"], ms)
	}).Methods(http.MethodPut)

	// DELETE membership
	protected.HandleFunc("/api/collections/{id}/documents/{docID}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		memberships.Remove(ctx, log, w, r, vars["id"], vars["docID"], ms)
	}).Methods(http.MethodDelete)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
