// Package memory registers the "memory" post store, an in-process store for
// demos and tests.
package memory

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("memory store closed")

type driver struct{}

func (driver) Name() string { return "memory" }

func (driver) Open(context.Context, repository.Options) (repository.PostRepository, error) {
	return New(), nil
}

func init() {
	repository.Register(driver{})
}

// Store keeps posts in a slice. Timestamps come from a clock that never
// repeats or goes backwards.
type Store struct {
	mu     sync.RWMutex
	posts  []*structs.Post
	seq    int64
	last   time.Time
	now    func() time.Time
	closed bool
}

// New returns an empty store using the wall clock.
func New() *Store {
	return &Store{now: time.Now}
}

// WithClock replaces the clock, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// ListAll returns copies of every post, newest first.
func (s *Store) ListAll(context.Context) ([]*structs.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.Join(repository.ErrStoreRead, ErrClosed)
	}

	out := make([]*structs.Post, len(s.posts))
	for i, p := range s.posts {
		cp := *p
		out[i] = &cp
	}
	repository.SortPosts(out, idLess)
	return out, nil
}

// Append stores a copy of p with a fresh id and timestamp.
func (s *Store) Append(_ context.Context, p *structs.Post) (*structs.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.Join(repository.ErrStoreWrite, ErrClosed)
	}

	s.seq++
	stored := *p
	stored.ID = strconv.FormatInt(s.seq, 10)
	stored.Timestamp = s.tick()
	stored.Pending = false
	s.posts = append(s.posts, &stored)

	out := stored
	return &out, nil
}

// Ping fails once the store is closed.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close marks the store closed.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func idLess(a, b string) bool {
	ai, _ := strconv.ParseInt(a, 10, 64)
	bi, _ := strconv.ParseInt(b, 10, 64)
	return ai < bi
}
