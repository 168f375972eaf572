// Package cache provides a persistent TTL cache for Confluence API responses.
//
// Entries live in a local SQLite database so cached reads survive process
// restarts. Each entry belongs to a category (pages, spaces, search, ...),
// letting write operations invalidate exactly the reads they stale. Expired
// rows are purged lazily on access.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Categories group entries by the kind of content they cache. Invalidation
// targets a category so a page update does not evict space or search entries.
const (
	CategoryPages  = "pages"
	CategorySpaces = "spaces"
	CategorySearch = "search"
	CategoryUsers  = "users"
)

// Stats summarizes cache effectiveness for the current process plus the
// persistent entry count.
type Stats struct {
	Entries int   // Live (unexpired) entries in the database
	Expired int   // Expired entries not yet purged
	Hits    int64 // Process-lifetime hit count
	Misses  int64 // Process-lifetime miss count
	SizeKB  int64 // Database file size in kilobytes
}

// Cache is a TTL key-value store backed by SQLite. Safe for concurrent use.
type Cache struct {
	db         *sql.DB
	path       string
	defaultTTL time.Duration

	mu     sync.Mutex
	hits   int64
	misses int64
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	category   TEXT NOT NULL,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);
CREATE INDEX IF NOT EXISTS idx_entries_expires ON entries(expires_at);
`

// Open opens (creating if needed) the cache database at path. defaultTTL is
// used by Set when the caller passes a zero TTL.
func Open(path string, defaultTTL time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Cache{db: db, path: path, defaultTTL: defaultTTL}, nil
}

// Set stores value under key in the given category. A zero ttl uses the
// cache's default. Existing entries are replaced.
func (c *Cache) Set(key, category string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expires := time.Now().Add(ttl).Unix()
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO entries (key, category, value, expires_at) VALUES (?, ?, ?, ?)`,
		key, category, value, expires,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Get returns the cached value for key, or ok=false on a miss. An expired
// entry counts as a miss and is deleted on the way out.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64
	err := c.db.QueryRow(
		`SELECT value, expires_at FROM entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		c.count(&c.misses)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		_, _ = c.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
		c.count(&c.misses)
		return nil, false, nil
	}

	c.count(&c.hits)
	return value, true, nil
}

// Invalidate removes every entry in the given category.
func (c *Cache) Invalidate(category string) error {
	_, err := c.db.Exec(`DELETE FROM entries WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("failed to invalidate category %q: %w", category, err)
	}
	return nil
}

// InvalidateKey removes a single entry.
func (c *Cache) InvalidateKey(key string) error {
	_, err := c.db.Exec(`DELETE FROM entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to invalidate key: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Purge deletes expired rows eagerly and returns how many were removed.
func (c *Cache) Purge() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM entries WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats reports entry counts, the process hit/miss counters, and file size.
func (c *Cache) Stats() (*Stats, error) {
	now := time.Now().Unix()
	stats := &Stats{}

	if err := c.db.QueryRow(
		`SELECT COUNT(*) FROM entries WHERE expires_at > ?`, now,
	).Scan(&stats.Entries); err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}
	if err := c.db.QueryRow(
		`SELECT COUNT(*) FROM entries WHERE expires_at <= ?`, now,
	).Scan(&stats.Expired); err != nil {
		return nil, fmt.Errorf("failed to count expired entries: %w", err)
	}

	c.mu.Lock()
	stats.Hits = c.hits
	stats.Misses = c.misses
	c.mu.Unlock()

	if info, err := os.Stat(c.path); err == nil {
		stats.SizeKB = info.Size() / 1024
	}
	return stats, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) count(counter *int64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}
