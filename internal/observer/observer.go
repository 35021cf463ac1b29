// Package observer implements the Observer (C5): an append-only log of
// behavioural observations and a batch-promotion pass that distils
// recurrent patterns into pinned instincts in the Synapse Store.
package observer

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Type enumerates the observation kinds the batch pass groups and
// promotes.
type Type string

const (
	TypeUserCorrection  Type = "user_correction"
	TypeErrorResolution Type = "error_resolution"
	TypeWorkflow        Type = "workflow"
	TypeToolPreference  Type = "tool_preference"
)

// Observation is one append-only record in observations.jsonl.
type Observation struct {
	ID        string                 `json:"id"`
	Timestamp int64                  `json:"timestamp"`
	Type      Type                   `json:"type"`
	Data      map[string]interface{} `json:"data"`
}

// Observer owns the observation log and the batch-promotion threshold.
type Observer struct {
	path                  string
	minObservationsForAll int

	now func() time.Time
}

// New builds an Observer backed by the observations.jsonl at path.
// minObservations is the §4.5 floor (default 5) below which BatchAnalyze
// is a no-op.
func New(path string, minObservations int) *Observer {
	if minObservations <= 0 {
		minObservations = 5
	}
	return &Observer{path: path, minObservationsForAll: minObservations, now: time.Now}
}

// Record appends one observation as a single JSON line. Best-effort and
// synchronous: any failure is logged and also returned, so each caller
// decides whether to surface it (the recall path logs and drops it; the
// observe command reports it).
func (o *Observer) Record(typ Type, data map[string]interface{}) error {
	obs := Observation{
		ID:        newObservationID(o.now()),
		Timestamp: o.now().UnixMilli(),
		Type:      typ,
		Data:      data,
	}

	line, err := json.Marshal(obs)
	if err != nil {
		log.Warn().Err(err).Msg("observer: failed to marshal observation, dropping")
		return err
	}

	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", o.path).Msg("observer: failed to open observation log, dropping")
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Warn().Err(err).Str("path", o.path).Msg("observer: failed to append observation, dropping")
		return err
	}
	return nil
}

// newObservationID builds the spec's literal obs_<millis>_<9-char-suffix>
// format. The random suffix is sliced off a uuid rather than hand-rolled,
// matching the teacher's reliance on google/uuid for identifier generation.
func newObservationID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return "obs_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}

// readAll loads every observation currently in the log, tolerating a
// missing file (empty slice) and skipping unparsable lines (logged, never
// raised) per §7's corrupt-state taxonomy.
func (o *Observer) readAll() []Observation {
	f, err := os.Open(o.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", o.path).Msg("observer: failed to open observation log")
		}
		return nil
	}
	defer f.Close()

	var out []Observation
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var obs Observation
		if err := json.Unmarshal([]byte(line), &obs); err != nil {
			log.Warn().Err(err).Msg("observer: skipping malformed observation line")
			continue
		}
		out = append(out, obs)
	}
	return out
}

// truncate empties the observation log after a successful promotion pass.
func (o *Observer) truncate() {
	if err := os.WriteFile(o.path, nil, 0o644); err != nil {
		log.Warn().Err(err).Str("path", o.path).Msg("observer: failed to truncate observation log")
	}
}
