package collectionservice

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

const pkg = "collectionService/"

type CollectionService struct {
	log     *slog.Logger
	colRepo CollectionRepository
	cache   Cache
	clock   Clock
}

func New(
	log *slog.Logger,
	colRepo CollectionRepository,
	cache Cache,
	clock Clock,
) *CollectionService {
	return &CollectionService{
		log:     log,
		colRepo: colRepo,
		cache:   cache,
		clock:   clock,
	}
}

// CreateCollection registers a collection owned by the caller. Creation is
// open to any authenticated identity; whoever creates becomes owner, and
// ownership never moves afterwards.
func (cs *CollectionService) CreateCollection(ctx context.Context, caller string, id string, name string, description string) (string, error) {
	op := pkg + "CreateCollection"

	log := cs.log.With(slog.String("op", op))

	if id == "" {
		id = uuid.NewV4().String()
	}

	if err := validateCollectionInput(id, name, description); err != nil {
		log.Warn("invalid collection params", slog.String("collection_id", id))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	col := &models.Collection{
		ID:          id,
		OwnerID:     caller,
		Name:        name,
		Description: description,
		CreatedAt:   cs.clock.Now(),
	}

	if err := cs.colRepo.CreateCollection(ctx, col); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			log.Warn("collection id taken", slog.String("collection_id", id))
			return "", fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		log.Error("failed to create collection", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("collection created", slog.String("collection_id", id), slog.String("owner", caller))

	return id, nil
}

// DeleteCollection removes the primary record. Strictly owner-only: an ADMIN
// grant does not suffice. Memberships and grants referencing the id survive.
func (cs *CollectionService) DeleteCollection(ctx context.Context, caller string, id string) error {
	op := pkg + "DeleteCollection"

	log := cs.log.With(slog.String("op", op))

	col, err := cs.colRepo.CollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			log.Warn("collection not found", slog.String("collection_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrCollectionNotFound)
		}
		log.Error("failed to get collection", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if col.OwnerID != caller {
		log.Warn("caller is not the owner", slog.String("collection_id", id), slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := cs.colRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete collection", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := cs.cache.Del(ctx, colCacheKey(id)); err != nil {
		log.Warn("failed to invalidate collection cache", slog.String("error", err.Error()))
	}

	log.Debug("collection deleted", slog.String("collection_id", id))

	return nil
}

// CollectionByID is an unrestricted metadata read; only content access is
// permission-gated in this model.
func (cs *CollectionService) CollectionByID(ctx context.Context, id string) (*models.Collection, error) {
	op := pkg + "CollectionByID"

	log := cs.log.With(slog.String("op", op))

	cacheKey := colCacheKey(id)

	colJSON, err := cs.cache.Get(ctx, cacheKey)
	if err == nil && colJSON != "" {
		var col models.Collection
		if err := json.Unmarshal([]byte(colJSON), &col); err == nil {
			return &col, nil
		}
		log.Warn("failed to decode cached collection", slog.String("collection_id", id))
	}

	col, err := cs.colRepo.CollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrCollectionNotFound)
		}
		log.Error("failed to get collection", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if raw, err := json.Marshal(col); err == nil {
		if err := cs.cache.Set(ctx, cacheKey, string(raw)); err != nil {
			log.Warn("failed to cache collection", slog.String("error", err.Error()))
		}
	}

	return col, nil
}

// GrantPermission upserts an explicit grant. Strictly owner-only: ADMIN
// grantees cannot grant further, which closes privilege-escalation chains.
func (cs *CollectionService) GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error {
	op := pkg + "GrantPermission"

	log := cs.log.With(slog.String("op", op))

	if !level.Valid() {
		log.Warn("invalid permission level", slog.Int("level", int(level)))
		return fmt.Errorf("%s: %w", op, models.ErrUnknownPermissionLevel)
	}

	if identity == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	col, err := cs.colRepo.CollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			log.Warn("collection not found", slog.String("collection_id", id))
			return fmt.Errorf("%s: %w", op, models.ErrCollectionNotFound)
		}
		log.Error("failed to get collection", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if col.OwnerID != caller {
		log.Warn("caller is not the owner", slog.String("collection_id", id), slog.String("caller", caller))
		return fmt.Errorf("%s: %w", op, models.ErrNotAuthorized)
	}

	if err := cs.colRepo.UpsertGrant(ctx, id, identity, level); err != nil {
		log.Error("failed to upsert grant", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("collection permission granted",
		slog.String("collection_id", id),
		slog.String("identity", identity),
		slog.String("level", level.String()))

	return nil
}

// HasPermission answers whether identity satisfies the required level on the
// collection. An absent collection is false, never an error.
func (cs *CollectionService) HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error) {
	op := pkg + "HasPermission"

	col, err := cs.colRepo.CollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCollectionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ok, err := permissions.Has(ctx, cs.colRepo, id, col, identity, required)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return ok, nil
}

func colCacheKey(id string) string {
	return "col:" + id
}

func validateCollectionInput(id string, name string, description string) error {
	if id == "" || len(id) > models.MaxIDLen {
		return models.ErrInvalidParams
	}
	if name == "" || len(name) > models.MaxNameLen {
		return models.ErrInvalidParams
	}
	if len(description) > models.MaxDescriptionLen {
		return models.ErrInvalidParams
	}
	return nil
}
