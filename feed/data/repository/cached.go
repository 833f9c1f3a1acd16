package repository

import (
	"context"
	"time"

	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
)

const listField = "all"

type skipCacheKey struct{}

// SkipCache marks ctx so a cached ListAll reads the store. The result still
// refreshes the cache.
func SkipCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCacheKey{}, true)
}

func skipCache(ctx context.Context) bool {
	skip, _ := ctx.Value(skipCacheKey{}).(bool)
	return skip
}

// ListCache stores the full post list. data/cache.Cache satisfies it.
type ListCache interface {
	Get(ctx context.Context, field string) (*[]*structs.Post, error)
	Set(ctx context.Context, field string, posts *[]*structs.Post, expire ...time.Duration) error
	Delete(ctx context.Context, field string) error
}

type cached struct {
	PostRepository
	cache ListCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCached wraps next with a read-through list cache. Cache failures are
// logged and the call falls through to next.
func NewCached(next PostRepository, c ListCache, ttl time.Duration, log *logger.Logger) PostRepository {
	if log == nil {
		log = logger.StdLogger()
	}
	return &cached{PostRepository: next, cache: c, ttl: ttl, log: log}
}

func (r *cached) ListAll(ctx context.Context) ([]*structs.Post, error) {
	if !skipCache(ctx) {
		hit, err := r.cache.Get(ctx, listField)
		if err != nil {
			r.log.Warn(ctx, "post list cache read failed", "error", err)
		} else if hit != nil {
			return *hit, nil
		}
	}

	posts, err := r.PostRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, listField, &posts, r.ttl); err != nil {
		r.log.Warn(ctx, "post list cache write failed", "error", err)
	}
	return posts, nil
}

func (r *cached) Append(ctx context.Context, p *structs.Post) (*structs.Post, error) {
	stored, err := r.PostRepository.Append(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Delete(ctx, listField); err != nil {
		r.log.Warn(ctx, "post list cache invalidation failed", "error", err)
	}
	return stored, nil
}
