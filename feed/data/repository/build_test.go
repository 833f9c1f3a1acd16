package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/feed/data/repository"
	_ "github.com/ncobase/postfeed/feed/data/repository/memory"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(store string) *config.Config {
	return &config.Config{
		Data: &config.Data{Store: store, Redis: &config.Redis{}},
		Feed: &config.Feed{Collection: "posts", CacheTTL: time.Second},
	}
}

func TestNewWithoutCache(t *testing.T) {
	repo, cleanup, err := repository.New(context.Background(), testConfig("memory"), logger.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestNewUnknownStore(t *testing.T) {
	_, _, err := repository.New(context.Background(), testConfig("nope"), logger.NewNop())
	assert.ErrorIs(t, err, repository.ErrUnknownStore)
}

func TestNewUnreachableCacheClosesStore(t *testing.T) {
	cfg := testConfig("memory")
	cfg.Data.Redis = &config.Redis{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond}

	_, _, err := repository.New(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "post list cache")
}
