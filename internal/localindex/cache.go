package localindex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

func loadCache(path string) cacheFile {
	c := cacheFile{Files: make(map[string]FileEntry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("localindex: failed to read cache, rebuilding")
		}
		return c
	}
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("localindex: corrupt cache, rebuilding")
		return cacheFile{Files: make(map[string]FileEntry)}
	}
	if c.Files == nil {
		c.Files = make(map[string]FileEntry)
	}
	return c
}

func saveCache(path string, c cacheFile) error {
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

// scanDir lists the .md files directly under dir (non-recursive, matching
// the flat memory/archive layout of this package).
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
