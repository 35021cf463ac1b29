package localindex

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Index is the incremental local inverted index. One Index is
// built over the active memory directory and the archive directory.
type Index struct {
	mu        sync.RWMutex
	cachePath string
	dirs      []string

	cache     cacheFile
	wordIndex map[string]map[string]struct{} // word -> set of file paths
}

// New builds an Index bound to cachePath and the given source directories.
func New(cachePath string, dirs ...string) *Index {
	return &Index{cachePath: cachePath, dirs: dirs}
}

// Build performs the incremental cache refresh: compare live mtimes to the
// cached entries, re-extract changed or new
// files, and rewrite the cache if anything changed.
func (idx *Index) Build() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.cache = loadCache(idx.cachePath)
	changed := false

	seenKeys := make(map[string]struct{})
	for _, dir := range idx.dirs {
		files, err := scanDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn().Err(err).Str("dir", dir).Msg("localindex: failed to scan directory")
			}
			continue
		}
		for _, path := range files {
			info, err := os.Stat(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("localindex: failed to stat file")
				continue
			}
			key := filepath.Base(path)
			seenKeys[key] = struct{}{}
			mtime := info.ModTime().UnixMilli()

			existing, ok := idx.cache.Files[key]
			if ok && existing.Mtime == mtime {
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("localindex: failed to read file for indexing")
				continue
			}
			words := extractWords(string(data))
			idx.cache.Files[key] = FileEntry{Mtime: mtime, Path: path, Words: words}
			changed = true
		}
	}

	// Drop cache entries for files that no longer exist.
	for key := range idx.cache.Files {
		if _, ok := seenKeys[key]; !ok {
			delete(idx.cache.Files, key)
			changed = true
		}
	}

	idx.rebuildWordIndex()

	if changed {
		idx.cache.LastBuildTime = time.Now().UnixMilli()
		if err := saveCache(idx.cachePath, idx.cache); err != nil {
			log.Warn().Err(err).Msg("localindex: failed to persist cache")
			return err
		}
	}
	return nil
}

func (idx *Index) rebuildWordIndex() {
	wi := make(map[string]map[string]struct{})
	for _, entry := range idx.cache.Files {
		for _, w := range entry.Words {
			set, ok := wi[w]
			if !ok {
				set = make(map[string]struct{})
				wi[w] = set
			}
			set[entry.Path] = struct{}{}
		}
	}
	idx.wordIndex = wi
}
