// Package tokenizer extracts content-bearing terms from mixed CJK/Latin
// text. It is deliberately distinct from internal/localindex's
// word extraction, which selects retrieval keys rather than weight-store
// terms.
package tokenizer

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog/log"
)

// cjkRunRe matches runs of two or more CJK ideographs (U+4E00..U+9FA5).
var cjkRunRe = regexp2.MustCompile(`[\x{4e00}-\x{9fa5}]{2,}`, regexp2.None)

// asciiRunRe matches runs of two or more ASCII letters.
var asciiRunRe = regexp2.MustCompile(`[A-Za-z]{2,}`, regexp2.None)

// Tokenizer extracts candidate content terms using a preferred Tagger path
// with a deterministic regex-based fallback.
type Tokenizer struct {
	tagger    Tagger
	minLen    int
	validTags map[string]struct{}
}

// New builds a Tokenizer. A nil tagger is replaced with NoopTagger.
func New(tagger Tagger, minLen int, validTags []string) *Tokenizer {
	if tagger == nil {
		tagger = NoopTagger{}
	}
	if minLen <= 0 {
		minLen = 2
	}
	vt := make(map[string]struct{}, len(validTags))
	for _, tag := range validTags {
		vt[tag] = struct{}{}
	}
	return &Tokenizer{tagger: tagger, minLen: minLen, validTags: vt}
}

// Extract returns the set of lowercased candidate content terms in text.
// Never raises: a tagger failure degrades silently to the fallback path.
func (t *Tokenizer) Extract(text string) []string {
	if terms := t.fromTagger(text); len(terms) > 0 {
		return terms
	}
	return t.fallback(text)
}

func (t *Tokenizer) fromTagger(text string) []string {
	tagged, err := t.tagger.Tag(text)
	if err != nil {
		log.Warn().Err(err).Msg("tokenizer: tagger failed, falling back to regex extraction")
		return nil
	}
	if len(tagged) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tt := range tagged {
		if _, ok := t.validTags[tt.Tag]; !ok {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(tt.Term))
		if len([]rune(term)) < t.minLen {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func (t *Tokenizer) fallback(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(raw string) {
		lower := strings.ToLower(raw)
		if isStopWord(lower) {
			return
		}
		if _, dup := seen[lower]; dup {
			return
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}

	for _, m := range findAll(cjkRunRe, text) {
		add(m)
	}
	for _, m := range findAll(asciiRunRe, text) {
		add(m)
	}
	return out
}

// findAll collects every non-overlapping match of re in text.
func findAll(re *regexp2.Regexp, text string) []string {
	var out []string
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}
