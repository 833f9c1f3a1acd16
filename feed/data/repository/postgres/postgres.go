// Package postgres registers the "postgres" post store backed by a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/feed/structs"
)

type driver struct{}

func (driver) Name() string { return "postgres" }

func (driver) Open(ctx context.Context, opts repository.Options) (repository.PostRepository, error) {
	if opts.Data.Postgres == nil || opts.Data.Postgres.DSN == "" {
		return nil, errors.New("postgres: dsn is empty")
	}
	return Open(ctx, opts.Data.Postgres.DSN, opts.Collection)
}

func init() {
	repository.Register(driver{})
}

// Store is a post table in PostgreSQL.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// Open connects, verifies the connection and creates the table when missing.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if err := repository.ValidIdentifier(table); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	s := &Store{pool: pool, table: table}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	text TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	youtube_link TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_timestamp_idx ON %s (timestamp DESC, id DESC)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to create schema: %w", err)
		}
	}
	return nil
}

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]*structs.Post, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT id, text, image_url, youtube_link, user_id, user_name, timestamp
		FROM %s ORDER BY timestamp DESC, id DESC`, s.table))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}

	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreRead, err)
	}
	return posts, nil
}

func scanPost(row pgx.CollectableRow) (*structs.Post, error) {
	var (
		p  structs.Post
		id int64
	)
	if err := row.Scan(&id, &p.Text, &p.ImageURL, &p.YouTubeLink, &p.UserID, &p.UserName, &p.Timestamp); err != nil {
		return nil, err
	}
	p.ID = strconv.FormatInt(id, 10)
	return &p, nil
}

// Append inserts p. The id and timestamp come from the database.
func (s *Store) Append(ctx context.Context, p *structs.Post) (*structs.Post, error) {
	stored := *p
	stored.Pending = false

	var id int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (text, image_url, youtube_link, user_id, user_name)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, timestamp`, s.table),
		p.Text, p.ImageURL, p.YouTubeLink, p.UserID, p.UserName,
	).Scan(&id, &stored.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}
	stored.ID = strconv.FormatInt(id, 10)
	return &stored, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
