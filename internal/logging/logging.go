// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init wires zerolog as the process logger. When logPath is empty, logs go
// to stderr so they never interleave with CLI JSON/table output on stdout.
func Init(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		} else {
			stdlog.Printf("brain-synapse: could not open log file %q, falling back to stderr: %v", logPath, err)
		}
	}

	log.Logger = log.Output(w).With().Timestamp().Logger()

	lvl := zerolog.InfoLevel
	if v := strings.ToLower(strings.TrimSpace(level)); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}
