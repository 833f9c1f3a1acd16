package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/feed/structs"
	"github.com/ncobase/postfeed/logging/logger"
)

var (
	// ErrStoreWrite wraps every failed append.
	ErrStoreWrite = errors.New("store write failed")
	// ErrStoreRead wraps every failed list.
	ErrStoreRead = errors.New("store read failed")
	// ErrUnknownStore is returned by Open for an unregistered driver name.
	ErrUnknownStore = errors.New("unknown store")
)

// PostRepository reads and appends posts.
type PostRepository interface {
	// ListAll returns every post, newest first with ties broken by id
	// descending.
	ListAll(ctx context.Context) ([]*structs.Post, error)
	// Append stores p and returns the stored record with the id and
	// timestamp assigned by the store.
	Append(ctx context.Context, p *structs.Post) (*structs.Post, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options are passed to a driver when a store is opened.
type Options struct {
	Data       *config.Data
	Collection string
	Logger     *logger.Logger
}

// Driver opens a PostRepository.
type Driver interface {
	Name() string
	Open(ctx context.Context, opts Options) (PostRepository, error)
}

var (
	drivers   = make(map[string]Driver)
	driversMu sync.RWMutex
)

// Register makes a driver available by its name. It is called from the init
// function of driver packages and panics on a nil or duplicate driver.
func Register(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if d == nil {
		panic("repository: Register driver is nil")
	}
	name := d.Name()
	if _, dup := drivers[name]; dup {
		panic("repository: Register called twice for driver " + name)
	}
	drivers[name] = d
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the store registered under name.
func Open(ctx context.Context, name string, opts Options) (PostRepository, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownStore, name, Drivers())
	}

	if opts.Collection == "" {
		opts.Collection = "posts"
	}
	if opts.Logger == nil {
		opts.Logger = logger.StdLogger()
	}
	if opts.Data == nil {
		opts.Data = &config.Data{}
	}
	return d.Open(ctx, opts)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidIdentifier reports an error when name cannot be used unquoted as a
// table name.
func ValidIdentifier(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}

// SortPosts orders posts newest first. Equal timestamps are ordered by id
// descending according to idLess.
func SortPosts(posts []*structs.Post, idLess func(a, b string) bool) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return idLess(b.ID, a.ID)
	})
}
