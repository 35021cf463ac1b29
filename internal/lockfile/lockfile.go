// Package lockfile provides the cross-process advisory lock guarding the
// hot and cold weight files. The default implementation wraps an OS
// advisory file lock; a sentinel-file fallback covers filesystems where
// that lock is unreliable.
package lockfile

import (
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// Locker acquires and releases the engine's cross-process mutation lock.
// Acquire never blocks indefinitely: on exhausting its retry budget it
// returns false so the caller can drop the mutation,
type Locker interface {
	// Acquire attempts to take the lock, retrying with backoff up to the
	// configured attempt count. It reports whether the lock was acquired.
	Acquire() bool
	// Release gives up the lock. Safe to call even if Acquire returned false.
	Release()
}

// FlockLocker guards a path with an OS advisory lock via github.com/gofrs/flock.
type FlockLocker struct {
	fl       *flock.Flock
	attempts int
	delay    time.Duration
	held     bool
}

// NewFlockLocker builds a Locker for the given lock file path.
func NewFlockLocker(path string, attempts int, delay time.Duration) *FlockLocker {
	if attempts <= 0 {
		attempts = 5
	}
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &FlockLocker{
		fl:       flock.New(path),
		attempts: attempts,
		delay:    delay,
	}
}

// Acquire implements Locker.
func (l *FlockLocker) Acquire() bool {
	for attempt := 0; attempt < l.attempts; attempt++ {
		ok, err := l.fl.TryLock()
		if err != nil {
			log.Warn().Err(err).Str("path", l.fl.Path()).Msg("lockfile: acquire attempt failed")
		} else if ok {
			l.held = true
			return true
		}
		time.Sleep(l.delay)
	}
	log.Warn().Str("path", l.fl.Path()).Int("attempts", l.attempts).Msg("lockfile: failed to acquire lock, abandoning mutation")
	return false
}

// Release implements Locker.
func (l *FlockLocker) Release() {
	if !l.held {
		return
	}
	if err := l.fl.Unlock(); err != nil {
		log.Warn().Err(err).Str("path", l.fl.Path()).Msg("lockfile: release failed")
	}
	l.held = false
}
