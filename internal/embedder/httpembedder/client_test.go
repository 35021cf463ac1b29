package httpembedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsNilWithoutAPIKey(t *testing.T) {
	assert.Nil(t, New(Config{}))
}

func TestChunkParagraphsRespectsSoftLimit(t *testing.T) {
	text := "para one\n\npara two is a bit longer than the first\n\npara three"
	chunks := chunkParagraphs(text, 20)
	assert.Len(t, chunks, 3)
	assert.Equal(t, "para one", chunks[0])
}

func TestChunkParagraphsMergesShortParagraphs(t *testing.T) {
	text := "a\n\nb\n\nc"
	chunks := chunkParagraphs(text, 1000)
	assert.Equal(t, []string{"a\n\nb\n\nc"}, chunks)
}

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 2}, []float32{1}))
}

func TestDedupeKeyUsesFileAndPreview(t *testing.T) {
	k1 := dedupeKey("a.md", "short chunk")
	k2 := dedupeKey("a.md", "short chunk")
	k3 := dedupeKey("b.md", "short chunk")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
