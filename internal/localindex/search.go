package localindex

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiddbin/brainsynapse/internal/tokenizer"
)

var wordSplitRe = regexp.MustCompile(`\W+`)

// Search runs the scoring query described in this package against the index,
// racing a hard deadline. On expiry the caller receives an empty result set
// and the elapsed time; the index is not torn down.
func (idx *Index) Search(queries []string, budget time.Duration) ([]Result, time.Duration, bool) {
	if budget <= 0 {
		budget = 100 * time.Millisecond
	}

	type outcome struct {
		results []Result
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		done <- outcome{results: idx.search(queries)}
	}()

	select {
	case out := <-done:
		return out.results, time.Since(start), false
	case <-time.After(budget):
		log.Warn().Dur("budget", budget).Msg("localindex: search exceeded budget, returning empty result")
		return nil, time.Since(start), true
	}
}

func (idx *Index) search(queries []string) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scores := make(map[string]int)
	firstQuery := make(map[string]string)

	for _, q := range queries {
		for file, delta := range idx.scoreQuery(q) {
			if _, ok := firstQuery[file]; !ok {
				firstQuery[file] = q
			}
			scores[file] += delta
		}
	}

	all := make([]rankedFile, 0, len(scores))
	for f, sc := range scores {
		all = append(all, rankedFile{f, sc})
	}
	sortRankedFiles(all)
	if len(all) > 5 {
		all = all[:5]
	}

	out := make([]Result, 0, len(all))
	for _, r := range all {
		out = append(out, Result{
			File:    r.file,
			Score:   r.score,
			Snippet: idx.snippet(r.file, firstQuery[r.file]),
		})
	}
	return out
}

// rankedFile pairs a file path with its aggregated query score.
type rankedFile struct {
	file  string
	score int
}

func sortRankedFiles(all []rankedFile) {
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].file < all[j].file
	})
}

// scoreQuery computes this single query's per-file score contribution:
// CJK queries score +10 for every file holding an indexed word that contains
// the whole query, plus +1 per ideograph; non-CJK queries score each token
// (length > 2) in the query.
func (idx *Index) scoreQuery(query string) map[string]int {
	lower := strings.ToLower(query)
	scores := make(map[string]int)

	if tokenizer.ContainsCJK(lower) {
		// CJK runs are indexed whole, so a query inside a longer run is
		// found by substring over the indexed words.
		exact := make(map[string]struct{})
		for word, files := range idx.wordIndex {
			if !strings.Contains(word, lower) {
				continue
			}
			for f := range files {
				exact[f] = struct{}{}
			}
		}
		for f := range exact {
			scores[f] += 10
		}
		for _, r := range lower {
			if r < 0x4e00 || r > 0x9fa5 {
				continue
			}
			ch := string(r)
			if files, ok := idx.wordIndex[ch]; ok {
				for f := range files {
					scores[f]++
				}
			}
		}
		return scores
	}

	for _, tok := range wordSplitRe.Split(lower, -1) {
		if runeLen(tok) <= 2 {
			continue
		}
		if files, ok := idx.wordIndex[tok]; ok {
			for f := range files {
				scores[f]++
			}
		}
	}
	return scores
}

// snippet extracts the line containing the first match of query plus the
// surrounding lines, falling back to the first three lines when no direct
// line match exists (e.g. the file matched only via a spreading term).
func (idx *Index) snippet(path, query string) string {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("localindex: snippet extraction failed to open file")
		return ""
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	lowerQuery := strings.ToLower(query)
	matchAt := -1
	for i, line := range lines {
		if lowerQuery != "" && strings.Contains(strings.ToLower(line), lowerQuery) {
			matchAt = i
			break
		}
	}

	if matchAt == -1 {
		n := 3
		if len(lines) < n {
			n = len(lines)
		}
		return strings.Join(lines[:n], "\n")
	}

	start := matchAt - 1
	if start < 0 {
		start = 0
	}
	end := matchAt + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}
	return strings.Join(lines[start:end+1], "\n")
}
