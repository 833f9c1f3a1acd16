package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/postfeed/feed/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	posts     []*structs.Post
	lists     int
	appendErr error
}

func (s *stubRepo) ListAll(context.Context) ([]*structs.Post, error) {
	s.lists++
	return s.posts, nil
}

func (s *stubRepo) Append(_ context.Context, p *structs.Post) (*structs.Post, error) {
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	s.posts = append([]*structs.Post{p}, s.posts...)
	return p, nil
}

func (s *stubRepo) Ping(context.Context) error  { return nil }
func (s *stubRepo) Close(context.Context) error { return nil }

type stubDriver struct {
	name string
	repo *stubRepo
	got  Options
}

func (d *stubDriver) Name() string { return d.name }

func (d *stubDriver) Open(_ context.Context, opts Options) (PostRepository, error) {
	d.got = opts
	return d.repo, nil
}

func TestRegisterAndOpen(t *testing.T) {
	d := &stubDriver{name: "stub-open", repo: &stubRepo{}}
	Register(d)

	assert.Contains(t, Drivers(), "stub-open")

	repo, err := Open(context.Background(), "stub-open", Options{})
	require.NoError(t, err)
	assert.Same(t, d.repo, repo)
	assert.Equal(t, "posts", d.got.Collection)
	assert.NotNil(t, d.got.Logger)
	assert.NotNil(t, d.got.Data)
}

func TestRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { Register(nil) })

	Register(&stubDriver{name: "stub-dup"})
	assert.Panics(t, func() { Register(&stubDriver{name: "stub-dup"}) })
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), "no-such-store", Options{})
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestValidIdentifier(t *testing.T) {
	for _, ok := range []string{"posts", "_wall", "feed_2024"} {
		assert.NoError(t, ValidIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1posts", "posts;drop", "my-posts", "a b"} {
		assert.Error(t, ValidIdentifier(bad), bad)
	}
}

func TestSortPosts(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []*structs.Post{
		{ID: "1", Timestamp: t0},
		{ID: "3", Timestamp: t0.Add(time.Second)},
		{ID: "2", Timestamp: t0},
	}
	SortPosts(posts, func(a, b string) bool { return a < b })

	ids := []string{posts[0].ID, posts[1].ID, posts[2].ID}
	assert.Equal(t, []string{"3", "2", "1"}, ids)
}

type memCache struct {
	data    map[string][]*structs.Post
	getErr  error
	setErr  error
	deletes int
}

func (c *memCache) Get(_ context.Context, field string) (*[]*structs.Post, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[field]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (c *memCache) Set(_ context.Context, field string, posts *[]*structs.Post, _ ...time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[field] = *posts
	return nil
}

func (c *memCache) Delete(_ context.Context, field string) error {
	c.deletes++
	delete(c.data, field)
	return nil
}

func TestCachedReadThrough(t *testing.T) {
	next := &stubRepo{posts: []*structs.Post{{ID: "1", Text: "a"}}}
	c := &memCache{data: map[string][]*structs.Post{}}
	repo := NewCached(next, c, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		posts, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	}
	assert.Equal(t, 1, next.lists)
}

func TestCachedAppendInvalidates(t *testing.T) {
	next := &stubRepo{}
	c := &memCache{data: map[string][]*structs.Post{}}
	repo := NewCached(next, c, time.Minute, nil)
	ctx := context.Background()

	_, err := repo.ListAll(ctx)
	require.NoError(t, err)
	_, err = repo.Append(ctx, &structs.Post{ID: "1", Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.deletes)

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 2, next.lists)
}

func TestCachedFailedAppendKeepsCache(t *testing.T) {
	next := &stubRepo{appendErr: ErrStoreWrite}
	c := &memCache{data: map[string][]*structs.Post{}}
	repo := NewCached(next, c, time.Minute, nil)

	_, err := repo.Append(context.Background(), &structs.Post{Text: "a"})
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Zero(t, c.deletes)
}

func TestCachedFallsThroughOnCacheErrors(t *testing.T) {
	next := &stubRepo{posts: []*structs.Post{{ID: "1"}}}
	c := &memCache{data: map[string][]*structs.Post{}, getErr: errors.New("down"), setErr: errors.New("down")}
	repo := NewCached(next, c, time.Minute, nil)

	posts, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCachedSkipCacheReadsStore(t *testing.T) {
	next := &stubRepo{posts: []*structs.Post{{ID: "1", Text: "a"}}}
	c := &memCache{data: map[string][]*structs.Post{}}
	repo := NewCached(next, c, time.Minute, nil)
	ctx := context.Background()

	_, err := repo.ListAll(ctx)
	require.NoError(t, err)

	// written elsewhere, the cached list is stale
	next.posts = append([]*structs.Post{{ID: "2", Text: "b"}}, next.posts...)

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = repo.ListAll(SkipCache(ctx))
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 2, next.lists)

	posts, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 2, next.lists)
}
