package view

import (
	"context"
	"sync"
	"time"

	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/nanoid"
)

// idSize is the length of a view id.
const idSize = 21

// Registry holds one View per browser session, keyed by a random id.
type Registry struct {
	newView func() *View
	ttl     time.Duration
	logger  *logger.Logger

	mu    sync.Mutex
	views map[string]*View
}

// NewRegistry creates a registry that builds views with newView and evicts
// them after ttl without activity. A zero ttl disables eviction.
func NewRegistry(newView func() *View, ttl time.Duration, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.StdLogger()
	}
	return &Registry{
		newView: newView,
		ttl:     ttl,
		logger:  log,
		views:   make(map[string]*View),
	}
}

// Get returns the open view registered under id and marks it active.
func (r *Registry) Get(id string) (*View, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok || v.Closed() {
		return nil, false
	}
	v.Touch()
	return v, true
}

// Create registers a new view under a fresh id.
func (r *Registry) Create() (string, *View) {
	v := r.newView()
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		id := nanoid.String(idSize)
		if _, taken := r.views[id]; !taken {
			r.views[id] = v
			return id, v
		}
	}
}

// Len returns the number of registered views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes and removes views idle longer than the ttl, and views closed
// by other means. It returns the number removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var stale []*View
	for id, v := range r.views {
		if v.Closed() || (r.ttl > 0 && v.IdleFor() > r.ttl) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Close()
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done, then closes all views.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug(ctx, "evicted idle feed views", "count", n, "remaining", r.Len())
			}
		}
	}
}

// CloseAll closes and removes every view.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
}
