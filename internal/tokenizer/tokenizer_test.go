package tokenizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackExtractsMixedScript(t *testing.T) {
	tok := New(nil, 2, []string{"n", "eng"})

	terms := tok.Extract("memory system database cache 重要决策 记住")

	assert.Contains(t, terms, "memory")
	assert.Contains(t, terms, "database")
	assert.Contains(t, terms, "重要决策")
}

func TestFallbackDropsStopWords(t *testing.T) {
	tok := New(nil, 2, nil)
	terms := tok.Extract("the cache is up and running")
	assert.Contains(t, terms, "cache")
	assert.Contains(t, terms, "running")
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "and")
}

type stubTagger struct {
	terms []TaggedTerm
	err   error
}

func (s stubTagger) Tag(string) ([]TaggedTerm, error) { return s.terms, s.err }

func TestTaggerPathFiltersByTagAndLength(t *testing.T) {
	tagger := stubTagger{terms: []TaggedTerm{
		{Term: "Database", Tag: "NN"},
		{Term: "a", Tag: "NN"},  // too short
		{Term: "quickly", Tag: "RB"}, // wrong tag
	}}
	tok := New(tagger, 2, []string{"NN", "NNS"})

	terms := tok.Extract("irrelevant raw text")
	require.Equal(t, []string{"database"}, terms)
}

func TestTaggerFailureDegradesToFallback(t *testing.T) {
	tagger := stubTagger{err: errors.New("tagger unavailable")}
	tok := New(tagger, 2, []string{"NN"})

	terms := tok.Extract("memory system")
	assert.Contains(t, terms, "memory")
	assert.Contains(t, terms, "system")
}

func TestTaggerEmptyResultDegradesToFallback(t *testing.T) {
	tagger := stubTagger{terms: nil}
	tok := New(tagger, 2, []string{"NN"})

	terms := tok.Extract("memory system")
	assert.Contains(t, terms, "memory")
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, ContainsCJK("数据库"))
	assert.False(t, ContainsCJK("database"))
}
