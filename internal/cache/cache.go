// Package cache is a best-effort file cache: one file per resource key,
// with the file modification time as the authoritative stored-at.
// It is a performance optimization, never a correctness dependency, so
// every failure degrades to a miss (reads) or a logged warning (writes).
package cache

import (
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// Cache stores payloads under Dir, one file per Key.
type Cache struct {
    dir string

    // now is the clock used for TTL checks; replaced in tests.
    now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the wall clock used for entry-age checks.
func WithClock(now func() time.Time) Option {
    return func(c *Cache) { c.now = now }
}

// New creates the cache directory if needed and returns a Cache rooted there.
func New(dir string, options ...Option) (*Cache, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, err
    }
    c := &Cache{dir: dir, now: time.Now}
    for _, option := range options {
        option(c)
    }
    return c, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.dir }

// Lookup returns the cached payload for key when an entry exists and is
// younger than ttl. Absence, expiry and read failures all report a miss.
func (c *Cache) Lookup(key Key, ttl time.Duration) ([]byte, bool) {
    path := c.path(key)
    fi, err := os.Stat(path)
    if err != nil {
        return nil, false
    }
    if c.now().Sub(fi.ModTime()) >= ttl {
        return nil, false
    }
    payload, err := os.ReadFile(path)
    if err != nil {
        log.Printf("cache: read %s: %v", key, err)
        return nil, false
    }
    return payload, true
}

// Store persists payload under key, silently overwriting an existing entry.
// Write failure is logged and swallowed.
func (c *Cache) Store(key Key, payload []byte) {
    if err := os.WriteFile(c.path(key), payload, 0o644); err != nil {
        log.Printf("cache: write %s: %v", key, err)
    }
}

// Clear removes entries whose key starts with prefix; an empty prefix
// removes everything. It returns the number of files removed.
func (c *Cache) Clear(prefix string) int {
    entries, err := os.ReadDir(c.dir)
    if err != nil {
        log.Printf("cache: list %s: %v", c.dir, err)
        return 0
    }
    removed := 0
    for _, e := range entries {
        if e.IsDir() {
            continue
        }
        if prefix != "" && !strings.HasPrefix(e.Name(), prefix) {
            continue
        }
        if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
            log.Printf("cache: remove %s: %v", e.Name(), err)
            continue
        }
        removed++
    }
    return removed
}

func (c *Cache) path(key Key) string {
    return filepath.Join(c.dir, string(key))
}
