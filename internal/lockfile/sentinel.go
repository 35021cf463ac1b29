package lockfile

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// SentinelLocker implements the create-exclusive-and-retry approach: it
// attempts to create the lock file with O_EXCL, retrying with backoff.
// This is race-prone across hosts with non-atomic filesystems and is kept
// only for equivalence with the sentinel-file design this package describes;
// FlockLocker is the default.
type SentinelLocker struct {
	path     string
	attempts int
	delay    time.Duration
	held     bool
}

// NewSentinelLocker builds a sentinel-file Locker.
func NewSentinelLocker(path string, attempts int, delay time.Duration) *SentinelLocker {
	if attempts <= 0 {
		attempts = 5
	}
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &SentinelLocker{path: path, attempts: attempts, delay: delay}
}

// Acquire implements Locker.
func (l *SentinelLocker) Acquire() bool {
	for attempt := 0; attempt < l.attempts; attempt++ {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			l.held = true
			return true
		}
		if !os.IsExist(err) {
			log.Warn().Err(err).Str("path", l.path).Msg("lockfile: sentinel create failed")
		}
		time.Sleep(l.delay)
	}
	log.Warn().Str("path", l.path).Int("attempts", l.attempts).Msg("lockfile: sentinel exhausted, abandoning mutation")
	return false
}

// Release implements Locker.
func (l *SentinelLocker) Release() {
	if !l.held {
		return
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", l.path).Msg("lockfile: sentinel remove failed")
	}
	l.held = false
}
