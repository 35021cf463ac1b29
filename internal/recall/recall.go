// Package recall implements the Recall Pipeline (C7): direct activation,
// Hebbian spreading, a parallel vector-vs-local retrieval race bounded by a
// hard timeout, pinned-rule injection, and dynamic re-ranking.
package recall

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kiddbin/brainsynapse/internal/embedder"
	"github.com/kiddbin/brainsynapse/internal/localindex"
	"github.com/kiddbin/brainsynapse/internal/observer"
	"github.com/kiddbin/brainsynapse/internal/synapse"
)

// raceDeadline is the §4.7 step 4 hard timeout for the vector arm of the
// retrieval race; it is independent of the Embedder client's own
// vectorSearchApi.timeout (the HTTP request budget).
const raceDeadline = 3 * time.Second

// Options configures one Recall call.
type Options struct {
	Deep        bool
	ReviveLimit int
}

// PinnedRule is one pinned rule surfaced by recall (§4.7 step 7).
type PinnedRule struct {
	Keyword string `json:"keyword"`
	Rule    string `json:"rule"`
}

// SearchResult is one ranked hit in the recall response's search_results,
// shaped to carry either a local-index hit (Score/Content) or a vector hit
// (Similarity/Preview).
type SearchResult struct {
	File       string   `json:"file"`
	Score      *int     `json:"score,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Content    string   `json:"content,omitempty"`
	Preview    string   `json:"preview,omitempty"`
	FinalScore *float64 `json:"finalScore,omitempty"`
}

// WeightEntry is one concept's weight in the response's weights_snapshot.
type WeightEntry struct {
	Concept string  `json:"concept"`
	Weight  float64 `json:"weight"`
}

// DeepRecallInfo is the optional deep_recall section of the response.
type DeepRecallInfo struct {
	Source          string                   `json:"source"`
	Query           string                   `json:"query"`
	RevivedCount    int                      `json:"revived_count"`
	RevivedMemories []synapse.RevivedMemory  `json:"revived_memories"`
	ArchiveContext  []synapse.ArchiveContext `json:"archive_context"`
	RemainingLatent int                      `json:"remaining_latent"`
}

// Response is the §6 recall response shape.
type Response struct {
	Source            string           `json:"source"`
	ActivatedConcepts []string         `json:"activated_concepts"`
	PinnedRules       []PinnedRule     `json:"pinned_rules"`
	SearchResults     []SearchResult   `json:"search_results"`
	WeightsSnapshot   []WeightEntry    `json:"weights_snapshot"`
	ScoringMode       string           `json:"scoring_mode"`
	IsFastMode        bool             `json:"is_fast_mode"`
	DeepRecall        *DeepRecallInfo  `json:"deep_recall,omitempty"`
}

// Pipeline runs the recall flow against one Store/Index/Embedder/Observer.
type Pipeline struct {
	Store    *synapse.Store
	Index    *localindex.Index
	Embedder embedder.Embedder // nil when no credentials are configured
	Observer *observer.Observer

	LocalBudget time.Duration
}

// New builds a Pipeline. localBudget defaults to 100ms.
func New(store *synapse.Store, idx *localindex.Index, emb embedder.Embedder, obs *observer.Observer, localBudget time.Duration) *Pipeline {
	if localBudget <= 0 {
		localBudget = 100 * time.Millisecond
	}
	return &Pipeline{Store: store, Index: idx, Embedder: emb, Observer: obs, LocalBudget: localBudget}
}

// Recall executes the §4.7 steps in order. Never fails wholesale: an empty
// result is a valid response.
func (p *Pipeline) Recall(ctx context.Context, query string, opts Options) Response {
	if opts.ReviveLimit <= 0 {
		opts.ReviveLimit = 5
	}

	direct := p.Store.DirectActivation(query)
	activated := make([]string, 0, len(direct))
	for _, c := range direct {
		p.Store.ReinforceOnRecall(c.Concept)
		activated = append(activated, c.Concept)
	}

	hebbianTerms := p.Store.SpreadingActivation(query, 3)
	expanded := append([]string{query}, hebbianTerms...)

	if err := p.Store.Persist(); err != nil {
		log.Warn().Err(err).Msg("recall: failed to persist LTP/recall-count commit")
	}

	localResults, vectorResp, vectorOK, isFastMode := p.race(ctx, expanded, query)

	var results []SearchResult
	var source string
	var scoringMode string
	if vectorOK && len(vectorResp.Results) > 0 {
		source = "silicon-embed"
		scoringMode = "vector"
		for _, r := range vectorResp.Results {
			sim := r.Similarity
			results = append(results, SearchResult{File: r.File, Preview: r.Preview, Similarity: &sim})
		}
	} else {
		source = "local-file-search"
		scoringMode = "local"
		for _, r := range localResults {
			score := r.Score
			results = append(results, SearchResult{File: r.File, Score: &score, Content: r.Snippet})
		}
	}

	if scoringMode == "local" {
		p.rerank(results, expanded)
	}

	resp := Response{
		Source:            source,
		ActivatedConcepts: activated,
		PinnedRules:       p.pinnedRules(query),
		SearchResults:     results,
		WeightsSnapshot:   p.weightsSnapshot(activated),
		ScoringMode:       scoringMode,
		IsFastMode:        isFastMode,
	}

	if opts.Deep {
		deep := p.Store.DeepRecall(expanded, opts.ReviveLimit)
		resp.DeepRecall = &DeepRecallInfo{
			Source:          source + " + deep_recall",
			Query:           query,
			RevivedCount:    deep.RevivedCount,
			RevivedMemories: deep.RevivedMemories,
			ArchiveContext:  deep.ArchiveContext,
			RemainingLatent: deep.RemainingLatent,
		}
	}

	if p.Observer != nil {
		go func() {
			if err := p.Observer.Record(observer.TypeWorkflow, map[string]interface{}{"context": query}); err != nil {
				log.Warn().Err(err).Msg("recall: failed to record workflow observation")
			}
		}()
	}

	return resp
}

// race runs the local-index search and the Embedder search concurrently.
// The local index enforces its own 100ms budget internally; the vector arm
// is bounded by the package's 3s race deadline. isFastMode reports whether
// the vector path timed out or no Embedder is configured (either way the
// local-only fallback is used).
func (p *Pipeline) race(ctx context.Context, expanded []string, query string) ([]localindex.Result, embedder.SearchResponse, bool, bool) {
	var localResults []localindex.Result
	var vectorResp embedder.SearchResponse
	vectorOK := false
	isFastMode := false

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, _, _ := p.Index.Search(expanded, p.LocalBudget)
		localResults = res
		return nil
	})

	if p.Embedder != nil {
		g.Go(func() error {
			vctx, cancel := context.WithTimeout(gctx, raceDeadline)
			defer cancel()
			resp, err := p.Embedder.Search(vctx, query)
			if err != nil {
				if vctx.Err() != nil {
					isFastMode = true
				}
				log.Warn().Err(err).Msg("recall: embedder search failed, falling back to local")
				return nil
			}
			vectorResp = resp
			vectorOK = resp.OK
			return nil
		})
	} else {
		isFastMode = true
	}

	_ = g.Wait()
	return localResults, vectorResp, vectorOK, isFastMode
}

// pinnedRules surfaces pinned rules whose key overlaps the query.
func (p *Pipeline) pinnedRules(query string) []PinnedRule {
	matches := p.Store.MatchingPinned(query)
	out := make([]PinnedRule, 0, len(matches))
	for _, m := range matches {
		out = append(out, PinnedRule{Keyword: m.Keyword, Rule: m.Rule})
	}
	return out
}

// weightsSnapshot captures the post-LTP weight of every directly activated
// concept, so the response reflects the reinforcement this call just applied.
func (p *Pipeline) weightsSnapshot(activated []string) []WeightEntry {
	out := make([]WeightEntry, 0, len(activated))
	for _, c := range activated {
		if d, ok := p.Store.Detail(c); ok {
			out = append(out, WeightEntry{Concept: c, Weight: d.Weight})
		}
	}
	return out
}
