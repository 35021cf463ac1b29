package synapse

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// RevivedMemory describes a concept revived from the cold store into hot.
type RevivedMemory struct {
	Concept string
	Weight  float64
}

// ArchiveContext is a small window of matching lines pulled from one
// archive file during a deep recall.
type ArchiveContext struct {
	File  string
	Lines []string
}

// DeepRecallResult is the full output of DeepRecall.
type DeepRecallResult struct {
	RevivedCount    int
	RevivedMemories []RevivedMemory
	ArchiveContext  []ArchiveContext
	RemainingLatent int
}

// DeepRecall finds latent keys matching any query (substring either way,
// case-insensitive), revives the top `limit`
// (ranked by descending original weight) into the hot store, and scans up
// to the first 10 archive files for literal query matches as context.
func (s *Store) DeepRecall(queries []string, limit int) DeepRecallResult {
	if limit <= 0 {
		limit = 5
	}

	s.mu.Lock()
	lowered := make([]string, len(queries))
	for i, q := range queries {
		lowered[i] = strings.ToLower(q)
	}

	type hit struct {
		key string
		lat *Latent
	}
	var hits []hit
	for key, lat := range s.cold {
		lk := strings.ToLower(key)
		for _, q := range lowered {
			if strings.Contains(lk, q) || strings.Contains(q, lk) {
				hits = append(hits, hit{key, lat})
				break
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].lat.OriginalWeight != hits[j].lat.OriginalWeight {
			return hits[i].lat.OriginalWeight > hits[j].lat.OriginalWeight
		}
		return hits[i].key < hits[j].key
	})

	now := s.nowMillis()
	var revived []RevivedMemory
	for i := 0; i < len(hits) && i < limit; i++ {
		key, lat := hits[i].key, hits[i].lat
		rec := lat.Synapse
		rec.Weight = s.ltd.RevivedWeight
		rec.LastAccess = now
		rec.RevivedFrom = "latent"
		rec.RevivedAt = now
		s.hot[key] = &rec
		delete(s.cold, key)
		revived = append(revived, RevivedMemory{Concept: key, Weight: rec.Weight})
	}
	remaining := len(s.cold)
	s.mu.Unlock()

	return DeepRecallResult{
		RevivedCount:    len(revived),
		RevivedMemories: revived,
		ArchiveContext:  s.scanArchiveContext(queries),
		RemainingLatent: remaining,
	}
}

// scanArchiveContext scans up to the first 10 archive files for lines
// containing any of the original (non-lowercased-preserving) queries,
// case-insensitively, returning up to 3 matching lines per file.
func (s *Store) scanArchiveContext(queries []string) []ArchiveContext {
	entries, err := os.ReadDir(s.archiveDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("dir", s.archiveDir).Msg("synapse: could not list archive dir for deep recall context")
		}
		return nil
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if len(files) > 10 {
		files = files[:10]
	}

	lowerQueries := make([]string, len(queries))
	for i, q := range queries {
		lowerQueries[i] = strings.ToLower(q)
	}

	var out []ArchiveContext
	for _, name := range files {
		lines := matchingLines(filepath.Join(s.archiveDir, name), lowerQueries, 3)
		if len(lines) > 0 {
			out = append(out, ArchiveContext{File: name, Lines: lines})
		}
	}
	return out
}

func matchingLines(path string, lowerQueries []string, max int) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("synapse: could not open archive file for deep recall context")
		return nil
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(out) < max {
		line := scanner.Text()
		lower := strings.ToLower(line)
		for _, q := range lowerQueries {
			if q != "" && strings.Contains(lower, q) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}
