package distill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/lockfile"
	"github.com/kiddbin/brainsynapse/internal/observer"
	"github.com/kiddbin/brainsynapse/internal/synapse"
	"github.com/kiddbin/brainsynapse/internal/tokenizer"
)

type noopLocker struct{}

func (noopLocker) Acquire() bool { return true }
func (noopLocker) Release()      {}

func newFixture(t *testing.T) (*Pipeline, *synapse.Store, string) {
	t.Helper()
	root := t.TempDir()
	memoryDir := filepath.Join(root, "memory")
	archiveDir := filepath.Join(memoryDir, "archive")
	require.NoError(t, os.MkdirAll(memoryDir, 0o755))
	require.NoError(t, os.MkdirAll(archiveDir, 0o755))

	var locker lockfile.Locker = noopLocker{}
	store := synapse.New(config.Default().LTD, config.Default().Keywords, locker,
		filepath.Join(root, "hot.json"), filepath.Join(root, "cold.json"), archiveDir)

	tok := tokenizer.New(nil, 2, config.Default().Keywords.ValidPOSTags)
	obs := observer.New(filepath.Join(root, "observations.jsonl"), config.Default().Observer.MinObservationsForInstinct)

	p := New(store, tok, obs, nil, memoryDir, archiveDir)
	return p, store, memoryDir
}

func TestDistillColdStartIngest(t *testing.T) {
	p, store, memoryDir := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "2025-01-01.md"), []byte("memory system database cache"), 0o644))

	result, err := p.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LogsProcessed)

	for _, term := range []string{"memory", "system", "database", "cache"} {
		detail, ok := store.Detail(term)
		require.True(t, ok, "expected %q in hot store", term)
		assert.Equal(t, 1, detail.Count)
	}

	_, err = os.Stat(filepath.Join(memoryDir, "2025-01-01.md"))
	assert.True(t, os.IsNotExist(err), "log should have been archived")
	_, err = os.Stat(filepath.Join(memoryDir, "archive", "2025-01-01.md"))
	assert.NoError(t, err)
}

func TestDistillSpecialConceptLine(t *testing.T) {
	p, store, memoryDir := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "2025-01-02.md"), []byte("- IMPORTANT: retry on 429"), 0o644))

	_, err := p.Run(context.Background(), true)
	require.NoError(t, err)

	detail, ok := store.Detail("important: retry on 429")
	require.True(t, ok)
	// base weight 1.0 + the 0.5 special-concept boost, then one ApplyLTD pass
	// (decayRate 0.9) within the same distillation: (1.0+0.5)*0.9 = 1.35.
	assert.InDelta(t, 1.35, detail.Weight, 1e-9)
}

func TestDistillExcludesTodayUnlessForced(t *testing.T) {
	p, store, memoryDir := newFixture(t)
	today := time.Now().Format("2006-01-02") + ".md"
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, today), []byte("todayterm"), 0o644))

	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.LogsProcessed)
	_, ok := store.Detail("todayterm")
	assert.False(t, ok)

	_, err = os.Stat(filepath.Join(memoryDir, today))
	assert.NoError(t, err, "today's log should remain in place in normal mode")
}

func TestDistillEmptyDirIsNoop(t *testing.T) {
	p, store, _ := newFixture(t)

	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.LogsProcessed)
	assert.Equal(t, 0, store.HotLen())
}

func TestDistillBuildsHebbianLinks(t *testing.T) {
	p, store, memoryDir := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "2025-01-03.md"), []byte("alpha beta"), 0o644))

	_, err := p.Run(context.Background(), true)
	require.NoError(t, err)

	partners := store.SpreadingActivation("alpha", 3)
	assert.Contains(t, partners, "beta")
}
