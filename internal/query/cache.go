package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/helixdash/helixdash/internal/filex"
)

// ErrCacheMiss is returned by Cache.Get when no row exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// Cache persists fetched responses in a local sqlite database so views can
// be served while a refetch is in flight or the backend is unreachable.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS query_cache (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  fetched_at INTEGER NOT NULL
);
`

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return NewCache(db)
}

// NewCache wraps an existing database handle and ensures the schema exists.
func NewCache(db *sql.DB) (*Cache, error) {
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	var value []byte
	var fetchedAt int64

	err := c.db.QueryRowContext(ctx,
		`SELECT value, fetched_at FROM query_cache WHERE key = ?`, key,
	).Scan(&value, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("cache get: %w", err)
	}

	return value, time.Unix(fetchedAt, 0), nil
}

func (c *Cache) Put(ctx context.Context, key string, value []byte, fetchedAt time.Time) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO query_cache(key, value, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at`,
		key, value, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM query_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
