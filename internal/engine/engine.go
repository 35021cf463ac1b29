// Package engine wires the config, Synapse Store, Tokenizer, Local Index,
// Embedder, and Observer into the single owned object the CLI constructs
// once per invocation (§9's "single owned store object" design note).
package engine

import (
	"path/filepath"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/distill"
	"github.com/kiddbin/brainsynapse/internal/embedder"
	"github.com/kiddbin/brainsynapse/internal/embedder/httpembedder"
	"github.com/kiddbin/brainsynapse/internal/localindex"
	"github.com/kiddbin/brainsynapse/internal/lockfile"
	"github.com/kiddbin/brainsynapse/internal/observer"
	"github.com/kiddbin/brainsynapse/internal/recall"
	"github.com/kiddbin/brainsynapse/internal/synapse"
	"github.com/kiddbin/brainsynapse/internal/tokenizer"
)

// Filenames under the engine directory, per §6.
const (
	hotWeightsFile   = "synapse_weights.json"
	coldWeightsFile  = "latent_weights.json"
	observationsFile = "observations.jsonl"
	localIndexCache  = "local_index_cache.json"
	vectorCacheFile  = "vector_cache.json"
	vectorMetaFile   = "vector_meta.json"
	lockFile         = ".observer.lock"
)

// Engine is the façade the CLI commands operate against.
type Engine struct {
	Config    config.Config
	Store     *synapse.Store
	Tokenizer *tokenizer.Tokenizer
	Index     *localindex.Index
	Embedder  embedder.Embedder
	Observer  *observer.Observer
	Distill   *distill.Pipeline
	Recall    *recall.Pipeline
}

// New constructs exactly one Engine for cfg, loading persisted state.
func New(cfg config.Config) (*Engine, error) {
	engineDir := cfg.Paths.EngineDir
	locker := lockfile.New(cfg.Lock, filepath.Join(engineDir, lockFile))

	store := synapse.New(
		cfg.LTD,
		cfg.Keywords,
		locker,
		filepath.Join(engineDir, hotWeightsFile),
		filepath.Join(engineDir, coldWeightsFile),
		cfg.Paths.ArchiveDir,
	)
	if err := store.Load(); err != nil {
		return nil, err
	}

	tok := tokenizer.New(nil, cfg.Keywords.MinWordLength, cfg.Keywords.ValidPOSTags)

	idx := localindex.New(filepath.Join(engineDir, localIndexCache), cfg.Paths.MemoryDir, cfg.Paths.ArchiveDir)
	if err := idx.Build(); err != nil {
		return nil, err
	}

	var emb embedder.Embedder
	if cfg.Features.EnableVectorSearch {
		if _, apiKey, ok := config.EmbedderEnv(); ok {
			if c := httpembedder.New(httpembedder.Config{
				APIKey:    apiKey,
				Timeout:   cfg.VectorSearchAPI.Timeout,
				ChunkSize: cfg.VectorSearchAPI.ChunkSize,
				CachePath: filepath.Join(engineDir, vectorCacheFile),
				MetaPath:  filepath.Join(engineDir, vectorMetaFile),
			}); c != nil {
				emb = c
			}
		}
	}

	var obs *observer.Observer
	if cfg.Features.EnableObserver {
		obs = observer.New(filepath.Join(engineDir, observationsFile), cfg.Observer.MinObservationsForInstinct)
	}

	dp := distill.New(store, tok, obs, emb, cfg.Paths.MemoryDir, cfg.Paths.ArchiveDir)
	rp := recall.New(store, idx, emb, obs, cfg.LocalSearch.MaxExecutionTime)

	return &Engine{
		Config:    cfg,
		Store:     store,
		Tokenizer: tok,
		Index:     idx,
		Embedder:  emb,
		Observer:  obs,
		Distill:   dp,
		Recall:    rp,
	}, nil
}
