package repository

import (
	"context"
	"fmt"

	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/data/cache"
	"github.com/ncobase/postfeed/data/redis"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
)

// New opens the configured store and, when a redis address is set, wraps it
// with the list cache. The cleanup function closes everything it opened.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (PostRepository, func(), error) {
	repo, err := Open(ctx, cfg.Data.Store, Options{
		Data:       cfg.Data,
		Collection: cfg.Feed.Collection,
		Logger:     log,
	})
	if err != nil {
		return nil, nil, err
	}

	closers := []func(){func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Error(ctx, "closing post store", "error", err)
		}
	}}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Data.Redis == nil || cfg.Data.Redis.Addr == "" {
		return repo, cleanup, nil
	}

	rc, err := redis.Connect(ctx, cfg.Data.Redis)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("post list cache: %w", err)
	}
	closers = append(closers, func() { _ = rc.Close() })

	lc := cache.NewCache[[]*structs.Post](rc, "feed:"+cfg.Feed.Collection)
	log.Info(ctx, "post list cache enabled", "addr", cfg.Data.Redis.Addr, "ttl", cfg.Feed.CacheTTL.String())
	return NewCached(repo, lc, cfg.Feed.CacheTTL, log), cleanup, nil
}
