package localindex

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

var (
	cjkRunRe   = regexp2.MustCompile(`[\x{4e00}-\x{9fa5}]{2,}`, regexp2.None)
	asciiRunRe = regexp2.MustCompile(`[A-Za-z]{2,}`, regexp2.None)
	alnumRunRe = regexp2.MustCompile(`[A-Za-z0-9]{2,}`, regexp2.None)
)

// extractWords collects retrieval keys from text: every >=2-char CJK run
// plus each single ideograph within it, every >=2-char ASCII run, and every
// >=2-char alphanumeric run. Output is a lowercased, deduplicated set.
func extractWords(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(w string) {
		w = strings.ToLower(w)
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	for _, run := range findAll(cjkRunRe, text) {
		add(run)
		for _, r := range run {
			add(string(r))
		}
	}
	for _, run := range findAll(asciiRunRe, text) {
		add(run)
	}
	for _, run := range findAll(alnumRunRe, text) {
		add(run)
	}
	return out
}

func findAll(re *regexp2.Regexp, text string) []string {
	var out []string
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out
}

// runeLen returns the number of runes (not bytes) in s.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
