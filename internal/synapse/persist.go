package synapse

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// Load reads the hot and cold weight files under the advisory lock. A
// missing or corrupt file is treated as empty: the corruption is
// logged and the next successful Persist repairs it on disk.
func (s *Store) Load() error {
	if !s.locker.Acquire() {
		log.Warn().Msg("synapse: could not acquire lock for Load, starting from empty state")
		return nil
	}
	defer s.locker.Release()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hot = loadMap[Synapse](s.hotPath, "hot")
	s.cold = loadMap[Latent](s.coldPath, "cold")
	return nil
}

func loadMap[T any](path, label string) map[string]*T {
	out := make(map[string]*T)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("synapse: failed to read weights file, treating as empty")
		}
		return out
	}
	if len(data) == 0 {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn().Err(err).Str("path", path).Str("store", label).Msg("synapse: corrupt weights file, treating as empty")
		return make(map[string]*T)
	}
	return out
}

// Persist writes the hot and cold weight files, pretty-printed, under the
// advisory lock. On lock exhaustion the mutation cycle is abandoned and
// logged; prior on-disk state remains consistent.
func (s *Store) Persist() error {
	if !s.locker.Acquire() {
		log.Warn().Msg("synapse: could not acquire lock for Persist, dropping this mutation")
		return nil
	}
	defer s.locker.Release()

	s.mu.RLock()
	hotCopy := s.hot
	coldCopy := s.cold
	s.mu.RUnlock()

	if err := writeJSON(s.hotPath, hotCopy); err != nil {
		log.Error().Err(err).Str("path", s.hotPath).Msg("synapse: failed to persist hot store")
		return err
	}
	if err := writeJSON(s.coldPath, coldCopy); err != nil {
		log.Error().Err(err).Str("path", s.coldPath).Msg("synapse: failed to persist cold store")
		return err
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
