package httpembedder

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// cacheEntry is one persisted chunk vector.
type cacheEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Preview   string    `json:"preview"`
	Vector    []float32 `json:"vector"`
	IndexedAt int64     `json:"indexed_at"`
}

// vectorCache is the on-disk shape of vector_cache.json, keyed by the
// dedupe key (file + preview[:200]).
type vectorCache struct {
	Entries map[string]cacheEntry `json:"entries"`
}

// meta is the on-disk shape of vector_meta.json.
type meta struct {
	LastIndexedFile string `json:"last_indexed_file"`
	LastIndexedAt   int64  `json:"last_indexed_at"`
}

func loadCache(path string) vectorCache {
	c := vectorCache{Entries: make(map[string]cacheEntry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("httpembedder: failed to read vector cache, treating as empty")
		}
		return c
	}
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("httpembedder: corrupt vector cache, treating as empty")
		return vectorCache{Entries: make(map[string]cacheEntry)}
	}
	if c.Entries == nil {
		c.Entries = make(map[string]cacheEntry)
	}
	return c
}

func saveCache(path string, c vectorCache) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func saveMeta(path string, m meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
