package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snippets(contents ...string) []MemorySnippet {
	out := make([]MemorySnippet, 0, len(contents))
	for _, c := range contents {
		out = append(out, MemorySnippet{Type: SnippetEpisode, Content: c})
	}
	return out
}

func TestCheckKeywordsPartition(t *testing.T) {
	memories := snippets("明天杭州有雨", "记得带伞")
	keywords := []string{"雨", "伞", "雪"}

	matched, missing := CheckKeywords(memories, keywords)

	assert.Equal(t, []string{"雨", "伞"}, matched)
	assert.Equal(t, []string{"雪"}, missing)
	// matched and missing re-assemble the input set
	assert.Len(t, append(matched, missing...), len(keywords))
}

func TestCheckKeywordsCaseInsensitive(t *testing.T) {
	matched, missing := CheckKeywords(snippets("Hello World"), []string{"hello"})

	assert.Equal(t, []string{"hello"}, matched)
	assert.Empty(t, missing)
}

func TestCheckKeywordsSpansSnippets(t *testing.T) {
	// keywords can match in any snippet, not just the first
	matched, _ := CheckKeywords(snippets("it rained all day", "she forgot her umbrella"), []string{"rain", "umbrella"})
	assert.Equal(t, []string{"rain", "umbrella"}, matched)
}

func TestCheckKeywordsNoMemories(t *testing.T) {
	matched, missing := CheckKeywords(nil, []string{"rain"})

	assert.Empty(t, matched)
	assert.Equal(t, []string{"rain"}, missing)
}

func TestCheckKeywordsEmptyKeywords(t *testing.T) {
	matched, missing := CheckKeywords(snippets("anything"), nil)

	assert.Empty(t, matched)
	assert.Empty(t, missing)
}

func TestMatchRate(t *testing.T) {
	assert.Equal(t, 0.5, MatchRate(1, 2))
	assert.Equal(t, 1.0, MatchRate(3, 3))
	assert.Equal(t, 0.0, MatchRate(0, 4))
	// empty keyword sets score zero and can never pass
	assert.Equal(t, 0.0, MatchRate(0, 0))
}

func TestPassThresholdBoundary(t *testing.T) {
	// exactly 50% passes
	assert.True(t, MatchRate(1, 2) >= PassThreshold)
	assert.False(t, MatchRate(1, 3) >= PassThreshold)
}
