// Package config holds the tunables for every Brain Synapse subsystem.
//
// Resolution order: built-in defaults -> brainsynapse.yaml (if present).
// No environment variable overrides a Config field. The Embedder's own
// credentials are read directly from the environment (see EmbedderEnv) and
// never stored in the YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LTD holds long-term-depression / long-term-potentiation parameters.
type LTD struct {
	DecayRate       float64 `yaml:"decayRate"`
	ForgetThreshold float64 `yaml:"forgetThreshold"`
	RevivedWeight   float64 `yaml:"revivedWeight"`
	InitialWeight   float64 `yaml:"initialWeight"`
}

// Observer holds Observer batch-promotion parameters.
type Observer struct {
	MinObservationsForInstinct int     `yaml:"minObservationsForInstinct"`
	ConfidenceBase             float64 `yaml:"confidenceBase"`
	ConfidenceIncrement        float64 `yaml:"confidenceIncrement"`
	ConfidenceDecrement        float64 `yaml:"confidenceDecrement"`
	ConfidenceDecayWeekly      float64 `yaml:"confidenceDecayWeekly"`
}

// Keywords holds tokenizer/weighting parameters.
type Keywords struct {
	MinWordLength      int      `yaml:"minWordLength"`
	MaxWeightMultiplier float64 `yaml:"maxWeightMultiplier"`
	DecayFactor        float64  `yaml:"decayFactor"`
	ValidPOSTags       []string `yaml:"validPosTags"`
}

// LocalSearch holds the local inverted index's execution budget.
type LocalSearch struct {
	MaxExecutionTime time.Duration `yaml:"maxExecutionTime"`
}

// VectorSearchAPI holds the Embedder's client-side tunables.
type VectorSearchAPI struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"maxResults"`
	ChunkSize  int           `yaml:"chunkSize"`
}

// Features toggles optional subsystems.
type Features struct {
	EnableVectorSearch bool `yaml:"enableVectorSearch"`
	EnableObserver     bool `yaml:"enableObserver"`
	EnableAutoDistill  bool `yaml:"enableAutoDistill"`
}

// LockMode selects the advisory-lock implementation for internal/lockfile.
type LockMode string

const (
	// LockModeFlock uses the OS-level advisory lock (github.com/gofrs/flock). Default.
	LockModeFlock LockMode = "flock"
	// LockModeSentinel uses a create-exclusive-and-retry sentinel file instead,
	// for filesystems where OS advisory locks are unreliable; race-prone.
	LockModeSentinel LockMode = "sentinel"
)

// Lock holds advisory-lock tunables.
type Lock struct {
	Mode          LockMode      `yaml:"mode"`
	RetryAttempts int           `yaml:"retryAttempts"`
	RetryDelay    time.Duration `yaml:"retryDelay"`
}

// Paths holds the on-disk layout relative to the engine directory.
type Paths struct {
	EngineDir      string `yaml:"engineDir"`
	MemoryDir      string `yaml:"memoryDir"`
	ArchiveDir     string `yaml:"archiveDir"`
	InstinctsDir   string `yaml:"instinctsDir"`
}

// Config is the central configuration record for one engine invocation.
type Config struct {
	LTD              LTD              `yaml:"ltd"`
	Observer         Observer         `yaml:"observer"`
	Keywords         Keywords         `yaml:"keywords"`
	LocalSearch      LocalSearch      `yaml:"localSearch"`
	VectorSearchAPI  VectorSearchAPI  `yaml:"vectorSearchApi"`
	Features         Features         `yaml:"features"`
	Lock             Lock             `yaml:"lock"`
	Paths            Paths            `yaml:"paths"`
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{
		LTD: LTD{
			DecayRate:       0.90,
			ForgetThreshold: 0.2,
			RevivedWeight:   0.5,
			InitialWeight:   1.0,
		},
		Observer: Observer{
			MinObservationsForInstinct: 5,
			ConfidenceBase:             0.3,
			ConfidenceIncrement:        0.05,
			ConfidenceDecrement:        0.1,
			ConfidenceDecayWeekly:      0.02,
		},
		Keywords: Keywords{
			MinWordLength:       2,
			MaxWeightMultiplier: 2.0,
			DecayFactor:         0.1,
			ValidPOSTags:        []string{"n", "nr", "nz", "eng", "noun", "NN", "NNS", "NNP", "NNPS", "FW"},
		},
		LocalSearch: LocalSearch{
			MaxExecutionTime: 100 * time.Millisecond,
		},
		VectorSearchAPI: VectorSearchAPI{
			Timeout:    5 * time.Second,
			MaxResults: 5,
			ChunkSize:  1000,
		},
		Features: Features{
			EnableVectorSearch: true,
			EnableObserver:     true,
			EnableAutoDistill:  false,
		},
		Lock: Lock{
			Mode:          LockModeFlock,
			RetryAttempts: 5,
			RetryDelay:    50 * time.Millisecond,
		},
		Paths: Paths{
			EngineDir:    ".",
			MemoryDir:    "../workspace/memory",
			ArchiveDir:   "../workspace/memory/archive",
			InstinctsDir: "instincts",
		},
	}
}

// Load resolves configuration from defaults and an optional yamlPath,
// loading a local .env first (best-effort) so the Embedder's credential
// variables are available to os.Getenv. It applies no environment overrides.
func Load(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env, continuing with process environment")
	}

	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		switch {
		case err == nil:
			if uerr := yaml.Unmarshal(data, &cfg); uerr != nil {
				return cfg, fmt.Errorf("parse config %s: %w", yamlPath, uerr)
			}
		case os.IsNotExist(err):
			// no config file is not an error; defaults stand.
		default:
			return cfg, fmt.Errorf("read config %s: %w", yamlPath, err)
		}
	}

	return cfg, nil
}

// EmbedderEnv reports whether SILICONFLOW_API_KEY is set. §6 lists
// VOYAGE_API_KEY and HF_TOKEN as credential env vars too, but this repo
// ships only a SiliconFlow-backed Embedder (see internal/embedder/httpembedder);
// a Voyage or HF key present without a SiliconFlow key leaves vector search
// disabled rather than constructing a client that would fail auth against
// the wrong provider.
func EmbedderEnv() (name, value string, ok bool) {
	if v := os.Getenv("SILICONFLOW_API_KEY"); v != "" {
		return "SILICONFLOW_API_KEY", v, true
	}
	return "", "", false
}
