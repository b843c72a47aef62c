// Package cache persists the merged catalog between runs so unchanged
// source files skip re-parsing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/retroforge/repkg/internal/catalog"
)

// Entry is one cached catalog snapshot. The key it is stored under is a
// fingerprint of the source files, so any source change is a cache miss.
type Entry struct {
	Records  []catalog.Record `json:"records"`
	CachedAt time.Time        `json:"cached_at"`
}

// FileCache provides TTL-based snapshot caching.
type FileCache struct {
	dir string
	ttl time.Duration
}

// New creates a new file cache.
func New(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// Get retrieves a cached snapshot if it exists and hasn't expired.
func (c *FileCache) Get(key string) (*Entry, bool) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return nil, false
	}

	if time.Since(entry.CachedAt) > c.ttl {
		return nil, false
	}
	return &entry, true
}

// Set stores a snapshot in the cache.
func (c *FileCache) Set(key string, entry *Entry) error {
	entry.CachedAt = time.Now()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *FileCache) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}

// Fingerprint derives a cache key from the given files' names, sizes and
// modification times. Order matters; callers pass files in ingestion
// order.
func Fingerprint(fsys afero.Fs, paths []string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		fmt.Fprintf(h, "%s|%d|%d\n", p, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
