package observer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kiddbin/brainsynapse/internal/synapse"
)

// template holds the type-specific instinct synthesis rules from §4.5's
// table.
type template struct {
	idPrefix string
	trigger  func(key string) string
	action   func(key string) string
	domain   string
}

var templates = map[Type]template{
	TypeUserCorrection: {
		idPrefix: "user-correct-",
		trigger:  func(key string) string { return "user correction pattern: " + key },
		action:   func(key string) string { return "auto-correct: " + key },
		domain:   "user_preference",
	},
	TypeErrorResolution: {
		idPrefix: "error-resolve-",
		trigger:  func(key string) string { return "error: " + key },
		action:   func(key string) string { return "auto-resolve: " + key },
		domain:   "error_handling",
	},
	TypeWorkflow: {
		idPrefix: "workflow-",
		trigger:  func(key string) string { return "workflow: " + key },
		action:   func(key string) string { return "auto-execute: " + key },
		domain:   "workflow",
	},
	TypeToolPreference: {
		idPrefix: "tool-pref-",
		trigger:  func(key string) string { return "task: " + key },
		action:   func(key string) string { return "use preferred tool for: " + key },
		domain:   "tool_usage",
	},
}

var nonWordRunRe = regexp.MustCompile(`\W+`)

// sanitizeKey lowercases key and replaces runs of non-word characters with
// a single hyphen, used to build the instinct id from a free-form group key.
func sanitizeKey(key string) string {
	s := nonWordRunRe.ReplaceAllString(strings.ToLower(key), "-")
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == '-' {
		s = s[:len(s)-1]
	}
	if s == "" {
		s = "default"
	}
	return s
}

// confidence buckets an evidence count into the §4.5 confidence scale.
func confidence(evidenceCount int) float64 {
	switch {
	case evidenceCount <= 2:
		return 0.3
	case evidenceCount <= 5:
		return 0.5
	case evidenceCount <= 10:
		return 0.7
	default:
		return 0.85
	}
}

// groupKey extracts the §4.5 grouping key from one observation's data,
// falling back through pattern -> errorType -> workflowHash -> taskType
// -> "default".
func groupKey(data map[string]interface{}) string {
	for _, field := range []string{"pattern", "errorType", "workflowHash", "taskType"} {
		if v, ok := data[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "default"
}

// BatchAnalyze reads the observation log and promotes every group of >=3
// same-(type,key) observations into a pinned instinct. Requires at least
// minObservationsForAll records total, otherwise it is a no-op. On success
// (>=1 instinct created) the observation log is truncated. Returns the
// number of instincts promoted.
func (o *Observer) BatchAnalyze(store *synapse.Store) int {
	all := o.readAll()
	if len(all) < o.minObservationsForAll {
		return 0
	}

	type groupKeyT struct {
		typ Type
		key string
	}
	groups := make(map[groupKeyT][]Observation)
	for _, obs := range all {
		gk := groupKeyT{typ: obs.Type, key: groupKey(obs.Data)}
		groups[gk] = append(groups[gk], obs)
	}

	// Sort group keys for deterministic promotion order.
	var keys []groupKeyT
	for gk := range groups {
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].typ != keys[j].typ {
			return keys[i].typ < keys[j].typ
		}
		return keys[i].key < keys[j].key
	})

	created := 0
	for _, gk := range keys {
		obsGroup := groups[gk]
		if len(obsGroup) < 3 {
			continue
		}
		tmpl, ok := templates[gk.typ]
		if !ok {
			continue
		}

		evidence := make([]string, len(obsGroup))
		for i, o := range obsGroup {
			evidence[i] = o.ID
		}

		instinctID := tmpl.idPrefix + sanitizeKey(gk.key)
		store.PromoteInstinct(instinctID, tmpl.trigger(gk.key), tmpl.action(gk.key), tmpl.domain, confidence(len(evidence)), evidence)
		created++
	}

	if created > 0 {
		o.truncate()
	}
	return created
}
