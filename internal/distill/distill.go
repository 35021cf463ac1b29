// Package distill implements the Distillation Pipeline (C6): it orchestrates
// log ingestion, term extraction, Synapse Store mutation, archive
// promotion, and triggering of incremental vector indexing.
package distill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kiddbin/brainsynapse/internal/embedder"
	"github.com/kiddbin/brainsynapse/internal/observer"
	"github.com/kiddbin/brainsynapse/internal/synapse"
	"github.com/kiddbin/brainsynapse/internal/tokenizer"
)

// dailyLogRe matches the active memory directory's daily log filenames.
var dailyLogRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// Pipeline runs one distillation pass over the active memory directory.
type Pipeline struct {
	Store     *synapse.Store
	Tokenizer *tokenizer.Tokenizer
	Observer  *observer.Observer
	Embedder  embedder.Embedder // nil when no credentials are configured

	MemoryDir  string
	ArchiveDir string

	now func() time.Time
}

// New builds a Pipeline.
func New(store *synapse.Store, tok *tokenizer.Tokenizer, obs *observer.Observer, emb embedder.Embedder, memoryDir, archiveDir string) *Pipeline {
	return &Pipeline{
		Store:      store,
		Tokenizer:  tok,
		Observer:   obs,
		Embedder:   emb,
		MemoryDir:  memoryDir,
		ArchiveDir: archiveDir,
		now:        time.Now,
	}
}

// Result is the human-readable distillation summary (§4.6's return value).
type Result struct {
	LogsProcessed  int
	TermsSeen      int
	ActiveConcepts int
}

// Summary renders Result as the human-readable string the CLI prints.
func (r Result) Summary() string {
	return fmt.Sprintf("distilled %d log(s), %d term(s) seen, %d active concept(s)", r.LogsProcessed, r.TermsSeen, r.ActiveConcepts)
}

// fileExtraction is one file's extracted terms, ready for store mutation.
type fileExtraction struct {
	name     string
	terms    []string // tokenizer.Extract output
	specials []string // special-concept-derived terms (§4.6 step 3)
}

// Run executes the §4.6 steps in their documented order. force includes
// today's log in the batch; the normal mode excludes it.
func (p *Pipeline) Run(ctx context.Context, force bool) (Result, error) {
	if p.Observer != nil {
		if created := p.Observer.BatchAnalyze(p.Store); created > 0 {
			log.Info().Int("instincts", created).Msg("distill: observer promoted instincts")
		}
	}

	today := p.now().Format("2006-01-02") + ".md"
	names, err := p.listLogs(force, today)
	if err != nil {
		return Result{}, fmt.Errorf("distill: list logs: %w", err)
	}

	extractions, err := p.extractAll(ctx, names)
	if err != nil {
		return Result{}, fmt.Errorf("distill: extract terms: %w", err)
	}

	termsSeen := 0
	fileToTerms := make(map[string][]string, len(extractions))
	for _, fe := range extractions {
		for _, t := range fe.terms {
			p.Store.ReinforceOnObservation(t, fe.name, false)
			termsSeen++
		}
		for _, t := range fe.specials {
			p.Store.ReinforceOnObservation(t, fe.name, true)
			termsSeen++
		}
		fileToTerms[fe.name] = append(append([]string{}, fe.terms...), fe.specials...)
	}

	for _, fe := range extractions {
		p.archive(fe.name)
	}

	p.Store.PredictiveLTD()
	p.Store.BuildHebbianLinks(fileToTerms)
	p.Store.ApplyLTD()

	if err := p.Store.Persist(); err != nil {
		return Result{}, fmt.Errorf("distill: persist store: %w", err)
	}

	p.triggerIncrementalIndex(ctx, today)

	return Result{
		LogsProcessed:  len(extractions),
		TermsSeen:      termsSeen,
		ActiveConcepts: p.Store.HotLen(),
	}, nil
}

// listLogs enumerates YYYY-MM-DD.md files under MemoryDir, sorted, excluding
// today's file unless force is set.
func (p *Pipeline) listLogs(force bool, today string) ([]string, error) {
	entries, err := os.ReadDir(p.MemoryDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !dailyLogRe.MatchString(e.Name()) {
			continue
		}
		if e.Name() == today && !force {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// extractAll tokenizes every named log under a bounded worker pool (each
// file's extraction is CPU-bound and independent); store mutation itself
// happens sequentially afterward, so parallelism here never touches the
// Store's own locking.
func (p *Pipeline) extractAll(ctx context.Context, names []string) ([]fileExtraction, error) {
	out := make([]fileExtraction, len(names))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			terms, specials := p.extractFile(name)
			out[i] = fileExtraction{name: name, terms: terms, specials: specials}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// extractFile reads one log and returns its tokenizer terms plus any
// special-concept-derived terms (§4.6 step 3: first 50 chars of each
// matching line, stripped of leading markdown bullet/heading markers).
func (p *Pipeline) extractFile(name string) (terms, specials []string) {
	path := filepath.Join(p.MemoryDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("distill: failed to read log, skipping")
		return nil, nil
	}
	text := string(data)

	terms = p.Tokenizer.Extract(text)

	for _, line := range strings.Split(text, "\n") {
		if !synapse.IsSpecialConcept(line) {
			continue
		}
		concept := strings.ToLower(stripLinePrefix(line))
		if r := []rune(concept); len(r) > 50 {
			concept = string(r[:50])
		}
		if concept == "" {
			continue
		}
		specials = append(specials, concept)
	}
	return terms, specials
}

// stripLinePrefix trims leading markdown bullet/heading/emphasis characters
// and surrounding whitespace before a special-concept line becomes a key.
func stripLinePrefix(line string) string {
	return strings.TrimLeft(strings.TrimSpace(line), "-*# ")
}

// archive moves a processed log from the active directory to the archive,
// logging (never failing the pass) on error.
func (p *Pipeline) archive(name string) {
	src := filepath.Join(p.MemoryDir, name)
	dst := filepath.Join(p.ArchiveDir, name)
	if err := os.MkdirAll(p.ArchiveDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", p.ArchiveDir).Msg("distill: failed to ensure archive dir, leaving log in place")
		return
	}
	if err := os.Rename(src, dst); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("distill: failed to archive log, leaving in place")
	}
}

// triggerIncrementalIndex calls the Embedder's incremental indexer for
// today's log, when the Embedder is configured and the file exists.
func (p *Pipeline) triggerIncrementalIndex(ctx context.Context, today string) {
	if p.Embedder == nil {
		return
	}
	path := filepath.Join(p.MemoryDir, today)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := p.Embedder.IncrementalIndex(ctx, path); err != nil {
		log.Warn().Err(err).Str("file", today).Msg("distill: incremental vector indexing failed")
	}
}
