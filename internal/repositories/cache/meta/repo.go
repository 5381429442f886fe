package metacache

import (
	"context"
	"docregistry/internal/repositories/cache"
	"time"
)

// repository fronts redis for the unrestricted metadata reads (getCollection,
// getDocument, getDocumentVersion). Permission grants are never stored here;
// authorization always reads the database.
type repository struct {
	cache cache.Cache
	ttl   time.Duration
}

func New(c cache.Cache, ttl time.Duration) *repository {
	return &repository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *repository) Get(ctx context.Context, key string) (string, error) {
	metaJSON, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}

	return metaJSON, nil
}

func (r *repository) Set(ctx context.Context, key string, value interface{}) error {
	return r.cache.Set(ctx, key, value, r.ttl).Err()
}

func (r *repository) Del(ctx context.Context, keys ...string) error {
	return r.cache.Del(ctx, keys...).Err()
}
