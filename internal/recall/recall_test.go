package recall

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/embedder"
	"github.com/kiddbin/brainsynapse/internal/localindex"
	"github.com/kiddbin/brainsynapse/internal/lockfile"
	"github.com/kiddbin/brainsynapse/internal/synapse"
)

type noopLocker struct{}

func (noopLocker) Acquire() bool { return true }
func (noopLocker) Release()      {}

type slowEmbedder struct {
	delay   time.Duration
	results []embedder.SearchResult
}

func (s slowEmbedder) Embed(ctx context.Context, text string) ([]float32, error) { return nil, nil }
func (s slowEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}
func (s slowEmbedder) IncrementalIndex(ctx context.Context, file string) error { return nil }
func (s slowEmbedder) Search(ctx context.Context, query string) (embedder.SearchResponse, error) {
	select {
	case <-time.After(s.delay):
		return embedder.SearchResponse{OK: true, Results: s.results}, nil
	case <-ctx.Done():
		return embedder.SearchResponse{}, ctx.Err()
	}
}

func newFixture(t *testing.T) (*synapse.Store, *localindex.Index, string) {
	t.Helper()
	root := t.TempDir()
	memoryDir := filepath.Join(root, "memory")
	require.NoError(t, os.MkdirAll(memoryDir, 0o755))

	var locker lockfile.Locker = noopLocker{}
	store := synapse.New(config.Default().LTD, config.Default().Keywords, locker,
		filepath.Join(root, "hot.json"), filepath.Join(root, "cold.json"), filepath.Join(root, "archive"))

	idx := localindex.New(filepath.Join(root, "cache.json"), memoryDir)
	return store, idx, memoryDir
}

func TestRecallReinforcesDirectActivation(t *testing.T) {
	store, idx, _ := newFixture(t)
	store.ReinforceOnObservation("database", "2025-01-01.md", false)
	before, _ := store.Detail("database")

	p := New(store, idx, nil, nil, 50*time.Millisecond)
	resp := p.Recall(context.Background(), "database", Options{})

	assert.Contains(t, resp.ActivatedConcepts, "database")
	after, ok := store.Detail("database")
	require.True(t, ok)
	assert.Greater(t, after.Weight, before.Weight)
}

func TestRecallFallsBackToLocalOnVectorTimeout(t *testing.T) {
	store, idx, memoryDir := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "2025-01-01.md"), []byte("database connection established"), 0o644))
	require.NoError(t, idx.Build())

	slow := slowEmbedder{delay: 4 * time.Second}
	p := New(store, idx, slow, nil, 100*time.Millisecond)

	start := time.Now()
	resp := p.Recall(context.Background(), "database", Options{})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 3100*time.Millisecond)
	assert.Equal(t, "local-file-search", resp.Source)
	assert.True(t, resp.IsFastMode)
	assert.NotEmpty(t, resp.SearchResults)
}

func TestRecallUsesVectorResultsWhenAvailable(t *testing.T) {
	store, idx, _ := newFixture(t)
	fast := slowEmbedder{delay: 0, results: []embedder.SearchResult{{File: "a.md", Preview: "hit", Similarity: 0.9}}}
	p := New(store, idx, fast, nil, 100*time.Millisecond)

	resp := p.Recall(context.Background(), "database", Options{})
	assert.Equal(t, "silicon-embed", resp.Source)
	require.Len(t, resp.SearchResults, 1)
	assert.Equal(t, 0.9, *resp.SearchResults[0].Similarity)
}

func TestRecallInjectsPinnedRules(t *testing.T) {
	store, idx, _ := newFixture(t)
	store.Pin("database", "always use connection pooling")

	p := New(store, idx, nil, nil, 100*time.Millisecond)
	resp := p.Recall(context.Background(), "database outage", Options{})

	require.Len(t, resp.PinnedRules, 1)
	assert.Equal(t, "database", resp.PinnedRules[0].Keyword)
}

func TestRecallDeepOptionAppendsDeepRecall(t *testing.T) {
	store, idx, _ := newFixture(t)
	store.ReinforceOnObservation("quant-strategy", "2025-01-01.md", false)
	// Force it cold via repeated decay.
	for i := 0; i < 50; i++ {
		store.ApplyLTD()
	}

	p := New(store, idx, nil, nil, 100*time.Millisecond)
	resp := p.Recall(context.Background(), "quant", Options{Deep: true, ReviveLimit: 1})

	require.NotNil(t, resp.DeepRecall)
	assert.Equal(t, 1, resp.DeepRecall.RevivedCount)
}

func TestDynamicWeightCapsAtTwo(t *testing.T) {
	store, idx, _ := newFixture(t)
	store.ReinforceOnObservation("popular", "2025-01-01.md", false)
	for i := 0; i < 1000; i++ {
		store.ReinforceOnObservation("popular", "2025-01-01.md", false)
	}

	p := New(store, idx, nil, nil, 100*time.Millisecond)
	now := store.NowMillis()
	w := dynamicWeight(p, "popular", now)
	assert.LessOrEqual(t, w, 2.0)
}
