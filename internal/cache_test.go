package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/ternlint/internal/types"
)

func TestCache(t *testing.T) {
	t.Parallel()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	src := []byte("int Pick(bool b) {\n    if (b) return 1;\n    return 2;\n}\n")

	t.Run("SaveAndLoad", func(t *testing.T) {
		issues := []tt.Issue{
			{
				Rule:       "test-rule",
				Category:   "test-category",
				Filename:   "test.cs",
				Message:    "test issue",
				Start:      token.Position{Line: 2, Column: 5, Filename: "test.cs"},
				End:        token.Position{Line: 3, Column: 14, Filename: "test.cs"},
				Severity:   tt.SeverityWarning,
				Confidence: 0.9,
				Edits:      []tt.TextEdit{{Start: 23, End: 39, NewText: "return b ? 1 : 2;"}},
			},
		}

		key := CacheKey(src, "settings")
		require.NoError(t, cache.Set(key, "test.cs", issues))

		loaded, found := cache.Get(key)
		assert.True(t, found)
		assert.Equal(t, issues, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get(CacheKey([]byte("nothing"), ""))
		assert.False(t, found)
	})

	t.Run("KeyDependsOnContentAndSettings", func(t *testing.T) {
		assert.Equal(t, CacheKey(src, "a"), CacheKey(src, "a"))
		assert.NotEqual(t, CacheKey(src, "a"), CacheKey(src, "b"))
		assert.NotEqual(t, CacheKey(src, "a"), CacheKey(append(src, '\n'), "a"))
	})
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	cache.SetMaxAge(time.Millisecond)

	key := CacheKey([]byte("x"), "")
	require.NoError(t, cache.Set(key, "x.cs", nil))
	time.Sleep(10 * time.Millisecond)

	_, found := cache.Get(key)
	assert.False(t, found)
	_, err = os.Stat(cache.pathFor(key))
	assert.True(t, os.IsNotExist(err))
}

func TestCacheInvalidateAll(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	keys := []string{CacheKey([]byte("a"), ""), CacheKey([]byte("b"), "")}
	for _, k := range keys {
		require.NoError(t, cache.Set(k, "f.cs", []tt.Issue{{Rule: "r"}}))
	}
	require.NoError(t, cache.InvalidateAll())

	for _, k := range keys {
		_, found := cache.Get(k)
		assert.False(t, found)
	}
}

func TestNilCache(t *testing.T) {
	t.Parallel()

	var cache *Cache
	assert.NoError(t, cache.Set("k", "f.cs", nil))
	_, found := cache.Get("k")
	assert.False(t, found)
}
