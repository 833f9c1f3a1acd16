// Package sqlite registers the "sqlite" post store backed by mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
)

// timestampLayout matches strftime('%Y-%m-%d %H:%M:%f') in UTC.
const timestampLayout = "2006-01-02 15:04:05.000"

type driver struct{}

func (driver) Name() string { return "sqlite" }

func (driver) Open(ctx context.Context, opts repository.Options) (repository.PostRepository, error) {
	if opts.Data.SQLite == nil || opts.Data.SQLite.Source == "" {
		return nil, errors.New("sqlite: connection source is empty")
	}
	return Open(ctx, opts.Data.SQLite.Source, opts.Collection)
}

func init() {
	repository.Register(driver{})
}

// Store is a post table in a SQLite database.
type Store struct {
	db    *sql.DB
	table string
}

// Open opens source, creates the table when missing and returns the store.
func Open(ctx context.Context, source, table string) (*Store, error) {
	if err := repository.ValidIdentifier(table); err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open connection: %w", err)
	}
	// a single connection keeps :memory: databases shared and writes serialised
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, table: table}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	youtube_link TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL DEFAULT (strftime('%%Y-%%m-%%d %%H:%%M:%%f', 'now'))
)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_timestamp_idx ON %s (timestamp DESC, id DESC)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: failed to create schema: %w", err)
		}
	}
	return nil
}

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]*structs.Post, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, text, image_url, youtube_link, user_id, user_name, timestamp
		FROM %s ORDER BY timestamp DESC, id DESC`, s.table))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}
	defer rows.Close()

	posts := make([]*structs.Post, 0)
	for rows.Next() {
		var (
			p  structs.Post
			id int64
			ts string
		)
		if err := rows.Scan(&id, &p.Text, &p.ImageURL, &p.YouTubeLink, &p.UserID, &p.UserName, &ts); err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
		}
		p.ID = strconv.FormatInt(id, 10)
		if p.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}
	return posts, nil
}

// Append inserts p. The id and timestamp come from the database.
func (s *Store) Append(ctx context.Context, p *structs.Post) (*structs.Post, error) {
	var (
		id int64
		ts string
	)
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (text, image_url, youtube_link, user_id, user_name)
		VALUES (?, ?, ?, ?, ?) RETURNING id, timestamp`, s.table),
		p.Text, p.ImageURL, p.YouTubeLink, p.UserID, p.UserName,
	).Scan(&id, &ts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}

	stored := *p
	stored.ID = strconv.FormatInt(id, 10)
	stored.Pending = false
	if stored.Timestamp, err = parseTimestamp(ts); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}
	return &stored, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
