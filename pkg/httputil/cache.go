package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists on disk
// but has exceeded its TTL. The stale data is left in place; callers
// should fetch fresh data and overwrite it with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache is a file-based cache of JSON-marshalable values. Each entry
// lives in its own file named after the SHA-256 hash of its key, so
// keys never need escaping and cannot collide across namespaces.
//
// A Cache instance is not goroutine-safe; distinct instances (and
// distinct processes) may share a directory, relying on atomic file
// replacement.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache rooted at dir with the given TTL. An empty
// dir selects ~/.cache/getdeps/. A TTL of 0 disables expiration. The
// directory is created if missing; that is the only failure mode.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "getdeps")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// DefaultDir returns the cache directory used when NewCache is called
// with an empty dir, without creating it.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "getdeps"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Get reads the value stored under key into v. It reports:
//   - (true, nil): fresh hit, v populated
//   - (false, nil): no entry
//   - (false, ErrExpired): entry present but past its TTL
//   - (false, err): I/O or decode failure
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores v under key, replacing any existing entry and resetting
// its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Namespace returns a view of the cache that prefixes every key,
// sharing the same directory and TTL. Namespaces may be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
