package observer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/lockfile"
	"github.com/kiddbin/brainsynapse/internal/synapse"
)

type noopLocker struct{}

func (noopLocker) Acquire() bool { return true }
func (noopLocker) Release()      {}

func newTestStore(t *testing.T) *synapse.Store {
	t.Helper()
	dir := t.TempDir()
	var locker lockfile.Locker = noopLocker{}
	s := synapse.New(config.Default().LTD, config.Default().Keywords, locker,
		filepath.Join(dir, "hot.json"), filepath.Join(dir, "cold.json"), filepath.Join(dir, "archive"))
	return s
}

func TestRecordAppendsOneLinePerObservation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observations.jsonl")
	o := New(path, 5)

	require.NoError(t, o.Record(TypeWorkflow, map[string]interface{}{"context": "recall database"}))
	require.NoError(t, o.Record(TypeWorkflow, map[string]interface{}{"context": "recall cache"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitNonEmptyLines(string(data))
	assert.Len(t, lines, 2)
}

func TestBatchAnalyzeNoopBelowMinimum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observations.jsonl")
	o := New(path, 5)
	store := newTestStore(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, o.Record(TypeErrorResolution, map[string]interface{}{"errorType": "ETIMEDOUT"}))
	}

	created := o.BatchAnalyze(store)
	assert.Equal(t, 0, created)
	assert.Empty(t, store.GetPinned())
}

func TestBatchAnalyzePromotesRecurrentGroupAndTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observations.jsonl")
	o := New(path, 5)
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, o.Record(TypeErrorResolution, map[string]interface{}{"errorType": "ETIMEDOUT"}))
	}

	created := o.BatchAnalyze(store)
	require.Equal(t, 1, created)

	pinned := store.GetPinned()
	require.Len(t, pinned, 1)
	assert.Equal(t, "error-resolve-etimedout", pinned[0].Keyword)
	assert.Equal(t, 1.0, pinned[0].Weight)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, splitNonEmptyLines(string(data)))
}

func TestConfidenceBuckets(t *testing.T) {
	assert.Equal(t, 0.3, confidence(2))
	assert.Equal(t, 0.5, confidence(5))
	assert.Equal(t, 0.7, confidence(10))
	assert.Equal(t, 0.85, confidence(11))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "etimedout", sanitizeKey("ETIMEDOUT"))
	assert.Equal(t, "foo-bar-baz", sanitizeKey("foo bar/baz!!"))
}

func splitNonEmptyLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			if line := s[start:i]; line != "" {
				out = append(out, line)
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
