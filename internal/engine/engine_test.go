package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiddbin/brainsynapse/internal/config"
)

func TestNewWiresUpEmptyEngine(t *testing.T) {
	root := t.TempDir()
	memoryDir := filepath.Join(root, "memory")
	archiveDir := filepath.Join(memoryDir, "archive")
	require.NoError(t, os.MkdirAll(archiveDir, 0o755))

	cfg := config.Default()
	cfg.Paths.EngineDir = root
	cfg.Paths.MemoryDir = memoryDir
	cfg.Paths.ArchiveDir = archiveDir
	cfg.Features.EnableVectorSearch = false

	eng, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, eng.Store)
	require.NotNil(t, eng.Index)
	require.NotNil(t, eng.Distill)
	require.NotNil(t, eng.Recall)
	require.Nil(t, eng.Embedder)
}
