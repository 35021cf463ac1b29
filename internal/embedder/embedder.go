// Package embedder defines the pluggable vector-embedding capability the
// spec treats as an external collaborator. Callers must
// tolerate a nil Embedder: recall and distillation both fall back to
// local-only operation when no credentials are configured.
package embedder

import "context"

// SearchResult is one vector-similarity hit.
type SearchResult struct {
	File       string
	Preview    string
	Similarity float64 // in [-1, 1]
}

// SearchResponse is the Embedder.Search return shape.
type SearchResponse struct {
	OK      bool
	Results []SearchResult
}

// Embedder is the capability the Recall and Distillation pipelines depend
// on for vector retrieval. Implementations must be safe for
// concurrent use: Search races against the local index in the recall path.
type Embedder interface {
	// Embed produces a fixed-dimension vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch produces vectors for multiple texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// IncrementalIndex chunks and embeds file, deduplicating chunks already
	// present in the vector cache by (file, preview[:200]). Idempotent.
	IncrementalIndex(ctx context.Context, file string) error
	// Search returns the top similarity matches for query against the
	// persisted vector cache.
	Search(ctx context.Context, query string) (SearchResponse, error)
}
