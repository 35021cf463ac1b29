package localindex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildAndSearchASCIIQuery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2025-01-01.md", "line one\ndatabase connection established\nline three")

	idx := New(filepath.Join(dir, "cache.json"), dir)
	require.NoError(t, idx.Build())

	results, _, timedOut := idx.Search([]string{"database"}, 100*time.Millisecond)
	require.False(t, timedOut)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Score)
	assert.Contains(t, results[0].Snippet, "database connection established")
}

func TestSearchCJKQueryScoresExactAndPerIdeograph(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2025-01-01.md", "系统记忆\n数据库缓存")

	idx := New(filepath.Join(dir, "cache.json"), dir)
	require.NoError(t, idx.Build())

	results, _, timedOut := idx.Search([]string{"数据库"}, 100*time.Millisecond)
	require.False(t, timedOut)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 10)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2025-01-01.md", "alpha\nbeta\ngamma\ndelta")

	idx := New(filepath.Join(dir, "cache.json"), dir)
	require.NoError(t, idx.Build())

	// A query that hits no indexed word yields no results at all.
	results, _, _ := idx.Search([]string{"zzz"}, 100*time.Millisecond)
	assert.Empty(t, results)
}

func TestBuildIsIncremental(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2025-01-01.md", "cache warmup")
	cachePath := filepath.Join(dir, "cache.json")

	idx := New(cachePath, dir)
	require.NoError(t, idx.Build())

	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	firstSize := len(data)
	require.Greater(t, firstSize, 0)

	// Re-building with no filesystem changes should not error and should
	// preserve the cached words.
	require.NoError(t, idx.Build())
	results, _, _ := idx.Search([]string{"cache"}, 100*time.Millisecond)
	require.Len(t, results, 1)
}

func TestLoadCacheTreatsCorruptAsEmpty(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.json")
	require.NoError(t, os.WriteFile(cachePath, []byte("not json"), 0o644))

	c := loadCache(cachePath)
	assert.Empty(t, c.Files)
}
