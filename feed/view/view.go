// Package view implements the feed page: one stateful View per browser
// session holding the post list, the draft and the submit phase.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ncobase/postfeed/feed/service"
	"github.com/ncobase/postfeed/feed/session"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
)

// Phase is the submit state of a view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "idle"
}

var (
	// ErrSubmitInFlight is returned when a submit arrives while another is
	// still pending on the same view.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrViewClosed is returned by operations on a closed view, including
	// results that settle after Close.
	ErrViewClosed = errors.New("view closed")
	// ErrNoSession is returned by Submit without an active identity.
	ErrNoSession = service.ErrNoSession
)

// Service is the post store as seen by a view.
type Service interface {
	ListAll(ctx context.Context) ([]*structs.Post, error)
	Append(ctx context.Context, draft structs.Draft, who structs.Identity) (*structs.Post, error)
}

// Option configures a View.
type Option func(*View)

// WithReloadAfterSubmit makes a successful submit reload the list from the
// store instead of prepending the local copy.
func WithReloadAfterSubmit(on bool) Option {
	return func(v *View) { v.reloadAfterSubmit = on }
}

// WithClock sets the clock used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// View is the state of one feed page.
type View struct {
	svc      Service
	sessions session.Provider
	logger   *logger.Logger
	now      func() time.Time

	reloadAfterSubmit bool

	// storeMu keeps ListAll and Append of one view from overlapping.
	storeMu sync.Mutex

	mu       sync.Mutex
	posts    []*structs.Post
	draft    structs.Draft
	phase    Phase
	loaded   bool
	loadErr  error
	closed   bool
	lastSeen time.Time
}

// New creates a view. The identity is read from sessions at render and
// submit time.
func New(svc Service, sessions session.Provider, log *logger.Logger, opts ...Option) *View {
	if log == nil {
		log = logger.StdLogger()
	}
	v := &View{
		svc:      svc,
		sessions: sessions,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.lastSeen = v.now()
	return v
}

// Load fetches the list and replaces the local one. On failure the previous
// list is kept and the error is recorded for the page banner. While a submit
// is pending it returns ErrSubmitInFlight and leaves the list alone.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.phase == PhaseSubmitting {
		v.mu.Unlock()
		return ErrSubmitInFlight
	}
	v.mu.Unlock()

	v.storeMu.Lock()
	defer v.storeMu.Unlock()
	return v.load(ctx)
}

// load runs ListAll and applies the result. storeMu must be held.
func (v *View) load(ctx context.Context) error {
	posts, err := v.svc.ListAll(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if err != nil {
		v.loadErr = err
		v.logger.Error(ctx, "loading posts failed", "error", err)
		return err
	}
	v.posts = posts
	v.loaded = true
	v.loadErr = nil
	return nil
}

// EnsureLoaded loads the list unless a load already succeeded.
func (v *View) EnsureLoaded(ctx context.Context) error {
	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	return v.Load(ctx)
}

// SetDraft replaces the draft.
func (v *View) SetDraft(d structs.Draft) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = d
}

// Draft returns the current draft.
func (v *View) Draft() structs.Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Phase returns the current submit phase.
func (v *View) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Submit appends the draft as a post of the current identity.
//
// On success the local copy is prepended and the draft cleared, or the list
// is reloaded when WithReloadAfterSubmit is set. On failure the error is
// logged and returned; the draft and the list are unchanged. The view is
// idle again when Submit returns.
func (v *View) Submit(ctx context.Context) error {
	return v.submit(ctx, nil)
}

// SubmitDraft replaces the draft and submits it in one step. While another
// submit is pending it returns ErrSubmitInFlight and keeps the pending draft.
func (v *View) SubmitDraft(ctx context.Context, d structs.Draft) error {
	return v.submit(ctx, &d)
}

func (v *View) submit(ctx context.Context, replace *structs.Draft) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.phase == PhaseSubmitting {
		v.mu.Unlock()
		return ErrSubmitInFlight
	}
	if replace != nil {
		v.draft = *replace
	}
	v.phase = PhaseSubmitting
	draft := v.draft
	v.mu.Unlock()

	// a load already reading the store finishes before the append starts
	v.storeMu.Lock()
	defer v.storeMu.Unlock()

	local, err := v.append(ctx, draft)

	v.mu.Lock()
	v.phase = PhaseIdle
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if err != nil {
		v.mu.Unlock()
		v.logger.Error(ctx, "submitting post failed", "error", err)
		return err
	}
	v.draft = structs.Draft{}
	if !v.reloadAfterSubmit {
		v.posts = append([]*structs.Post{local}, v.posts...)
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	// the post is stored; a failed reload only shows the banner
	if err := v.load(ctx); err != nil && !errors.Is(err, ErrViewClosed) {
		v.logger.Warn(ctx, "reload after submit failed", "error", err)
	}
	return nil
}

func (v *View) append(ctx context.Context, draft structs.Draft) (*structs.Post, error) {
	who, ok := v.sessions.Current(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return v.svc.Append(ctx, draft, *who)
}

// Posts returns a copy of the list.
func (v *View) Posts() []*structs.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*structs.Post, len(v.posts))
	copy(out, v.posts)
	return out
}

// Close discards the view. Pending operations settle with ErrViewClosed.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.posts = nil
}

// Closed reports whether Close was called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Touch records activity for idle eviction.
func (v *View) Touch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastSeen = v.now()
}

// IdleFor returns the time since the last Touch.
func (v *View) IdleFor() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now().Sub(v.lastSeen)
}
