package lockfile

import "github.com/kiddbin/brainsynapse/internal/config"

// New builds the configured Locker implementation for path.
func New(cfg config.Lock, path string) Locker {
	if cfg.Mode == config.LockModeSentinel {
		return NewSentinelLocker(path, cfg.RetryAttempts, cfg.RetryDelay)
	}
	return NewFlockLocker(path, cfg.RetryAttempts, cfg.RetryDelay)
}
