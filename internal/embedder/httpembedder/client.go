// Package httpembedder implements internal/embedder.Embedder against the
// SiliconFlow embeddings HTTP API: a plain bearer-token REST endpoint,
// chosen over a vendored SDK because SILICONFLOW_API_KEY is a first-listed
// credential env var in the spec and needs no client library of its own.
package httpembedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiddbin/brainsynapse/internal/embedder"
)

const defaultBaseURL = "https://api.siliconflow.cn/v1"

// Client is a SILICONFLOW_API_KEY-backed Embedder. The vector cache and
// metadata files are owned and persisted by this client, append-and-rewrite
// like the synapse weight files.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	chunkSize  int

	cachePath string
	metaPath  string
}

// Config bundles the tunables Client needs from the central config record.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	ChunkSize int
	CachePath string
	MetaPath  string
}

// New builds a Client. Returns nil if apiKey is empty, letting callers treat
// "no credentials" as "no embedder" uniformly (§4.3: absence of credentials
// is not an error).
func New(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Model == "" {
		cfg.Model = "BAAI/bge-large-zh-v1.5"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		chunkSize:  cfg.ChunkSize,
		cachePath:  cfg.CachePath,
		metaPath:   cfg.MetaPath,
	}
}

var _ embedder.Embedder = (*Client)(nil)

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed produces a fixed-dimension vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("httpembedder: empty embedding response")
	}
	return vecs[0], nil
}

// EmbedBatch produces vectors for multiple texts, preserving order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingsRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("httpembedder: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpembedder: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpembedder: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpembedder: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpembedder: unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("httpembedder: parse response: %w", err)
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out, nil
}

// IncrementalIndex chunks file into paragraph groups up to the configured
// soft limit, embeds any chunk not already present in the vector cache
// (deduplicated by file + first 200 chars of the chunk), and persists the
// cache. Idempotent.
func (c *Client) IncrementalIndex(ctx context.Context, file string) error {
	data, err := readFile(file)
	if err != nil {
		return fmt.Errorf("httpembedder: read %s: %w", file, err)
	}

	chunks := chunkParagraphs(string(data), c.chunkSize)
	if len(chunks) == 0 {
		return nil
	}

	cache := loadCache(c.cachePath)

	var pending []string
	var pendingKeys []string
	for _, chunk := range chunks {
		key := dedupeKey(file, chunk)
		if _, ok := cache.Entries[key]; ok {
			continue
		}
		pending = append(pending, chunk)
		pendingKeys = append(pendingKeys, key)
	}
	if len(pending) == 0 {
		return nil
	}

	vecs, err := c.EmbedBatch(ctx, pending)
	if err != nil {
		return fmt.Errorf("httpembedder: embed chunks for %s: %w", file, err)
	}

	now := time.Now().UnixMilli()
	for i, chunk := range pending {
		cache.Entries[pendingKeys[i]] = cacheEntry{
			ID:        uuid.NewString(),
			File:      file,
			Preview:   preview(chunk, 200),
			Vector:    vecs[i],
			IndexedAt: now,
		}
	}

	if err := saveCache(c.cachePath, cache); err != nil {
		return fmt.Errorf("httpembedder: persist vector cache: %w", err)
	}
	return saveMeta(c.metaPath, meta{LastIndexedFile: file, LastIndexedAt: now})
}

// Search computes cosine similarity between query's embedding and every
// cached vector, returning the top matches. Reports ok=false (never an
// error to the caller) when the cache is empty.
func (c *Client) Search(ctx context.Context, query string) (embedder.SearchResponse, error) {
	cache := loadCache(c.cachePath)
	if len(cache.Entries) == 0 {
		return embedder.SearchResponse{OK: false}, nil
	}

	qvec, err := c.Embed(ctx, query)
	if err != nil {
		return embedder.SearchResponse{}, fmt.Errorf("httpembedder: embed query: %w", err)
	}

	var all []struct {
		entry cacheEntry
		score float64
	}
	for _, e := range cache.Entries {
		all = append(all, struct {
			entry cacheEntry
			score float64
		}{entry: e, score: cosineSimilarity(qvec, e.Vector)})
	}
	sortScoredDesc(all)

	limit := 5
	if len(all) < limit {
		limit = len(all)
	}
	results := make([]embedder.SearchResult, 0, limit)
	for i := 0; i < limit; i++ {
		results = append(results, embedder.SearchResult{
			File:       all[i].entry.File,
			Preview:    all[i].entry.Preview,
			Similarity: all[i].score,
		})
	}
	return embedder.SearchResponse{OK: true, Results: results}, nil
}

func sortScoredDesc(all []struct {
	entry cacheEntry
	score float64
}) {
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].score > all[j-1].score; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// chunkParagraphs groups text into paragraphs (blank-line separated),
// accumulating consecutive paragraphs up to the soft char limit.
func chunkParagraphs(text string, softLimit int) []string {
	paras := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > softLimit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func dedupeKey(file, chunk string) string {
	return file + "\x00" + preview(chunk, 200)
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
