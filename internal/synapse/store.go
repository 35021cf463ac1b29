package synapse

import (
	"sync"
	"time"

	"github.com/kiddbin/brainsynapse/internal/config"
	"github.com/kiddbin/brainsynapse/internal/lockfile"
)

// Store owns the hot and cold concept maps and mediates every mutation.
// Exactly one Store is constructed per engine invocation.
type Store struct {
	mu sync.RWMutex

	hot  map[string]*Synapse
	cold map[string]*Latent

	ltd    config.LTD
	kw     config.Keywords
	locker lockfile.Locker

	hotPath    string
	coldPath   string
	archiveDir string

	// now is overridable for deterministic tests; defaults to time.Now.
	now func() time.Time
}

// New constructs an empty Store. Call Load to populate it from disk.
func New(ltd config.LTD, kw config.Keywords, locker lockfile.Locker, hotPath, coldPath, archiveDir string) *Store {
	return &Store{
		hot:        make(map[string]*Synapse),
		cold:       make(map[string]*Latent),
		ltd:        ltd,
		kw:         kw,
		locker:     locker,
		hotPath:    hotPath,
		coldPath:   coldPath,
		archiveDir: archiveDir,
		now:        time.Now,
	}
}

// nowMillis returns the current time in milliseconds since the epoch.
func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// HotLen reports the number of active concepts, for distillation summaries.
func (s *Store) HotLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hot)
}
