package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	tt "github.com/gnolang/ternlint/internal/types"
)

// bump when the layout of CacheEntry changes
const cacheSchemaVersion uint16 = 1

const defaultCacheMaxAge = 24 * time.Hour

// CacheEntry is what the cache stores for one analysed source.
type CacheEntry struct {
	Schema    uint16
	Filename  string
	Issues    []tt.Issue
	CreatedAt time.Time
}

// Cache keeps lint results on disk, keyed by the content of the file and
// the engine settings that produced them. A changed file or a changed
// configuration simply misses.
type Cache struct {
	CacheDir string
	mutex    sync.RWMutex
	maxAge   time.Duration
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		CacheDir: cacheDir,
		maxAge:   defaultCacheMaxAge,
	}, nil
}

// CacheKey derives the cache key of a source under the given settings.
func CacheKey(src []byte, settings string) string {
	h := sha256.New()
	h.Write([]byte(settings))
	h.Write([]byte{0})
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.CacheDir, key+".mp")
}

func (c *Cache) Set(key, filename string, issues []tt.Issue) error {
	if c == nil {
		return nil
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	f, err := os.CreateTemp(c.CacheDir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(f.Name())

	entry := CacheEntry{
		Schema:    cacheSchemaVersion,
		Filename:  filename,
		Issues:    issues,
		CreatedAt: time.Now(),
	}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return os.Rename(f.Name(), c.pathFor(key))
}

// Get returns the cached issues for key. Entries that are too old or were
// written by another schema are removed and reported as a miss.
func (c *Cache) Get(key string) ([]tt.Issue, bool) {
	if c == nil {
		return nil, false
	}
	c.mutex.RLock()
	entry, err := c.read(key)
	maxAge := c.maxAge
	c.mutex.RUnlock()
	if err != nil {
		return nil, false
	}

	if entry.Schema != cacheSchemaVersion || time.Since(entry.CreatedAt) > maxAge {
		c.mutex.Lock()
		_ = os.Remove(c.pathFor(key))
		c.mutex.Unlock()
		return nil, false
	}
	return entry.Issues, true
}

func (c *Cache) read(key string) (*CacheEntry, error) {
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var entry CacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}
	return &entry, nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.CacheDir, "*.mp"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
