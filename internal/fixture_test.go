package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "conversations": [
    {
      "session_id": "s1",
      "session_date": "2025-03-01",
      "messages": [
        {"role": "user", "name": "阿信", "content": "我搬到了杭州"},
        {"role": "assistant", "content": "恭喜搬家"}
      ]
    }
  ],
  "test_questions": {
    "basic_recall": [
      {"message": "我住在哪里？", "keywords": ["杭州"]}
    ],
    "causal": []
  }
}`

func writeFixtureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFixtures(t *testing.T) {
	path := writeFixtureFile(t, fixtureJSON)

	set, err := LoadFixtures(path)
	require.NoError(t, err)

	require.Len(t, set.Conversations, 1)
	assert.Equal(t, "s1", set.Conversations[0].SessionID)
	assert.Equal(t, "2025-03-01", set.Conversations[0].SessionDate)
	require.Len(t, set.Conversations[0].Messages, 2)
	assert.Equal(t, "阿信", set.Conversations[0].Messages[0].Name)

	require.Len(t, set.Questions[CategoryBasicRecall], 1)
	assert.Equal(t, []string{"杭州"}, set.Questions[CategoryBasicRecall][0].Keywords)
	assert.Empty(t, set.Questions[CategoryTemporal])
}

func TestLoadFixturesIdempotent(t *testing.T) {
	path := writeFixtureFile(t, fixtureJSON)

	first, err := LoadFixtures(path)
	require.NoError(t, err)
	second, err := LoadFixtures(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadFixturesMissingFile(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "read fixtures")
}

func TestLoadFixturesMalformed(t *testing.T) {
	path := writeFixtureFile(t, "{not json")

	_, err := LoadFixtures(path)
	assert.ErrorContains(t, err, "parse fixtures")
}

func TestLoadFixturesShipped(t *testing.T) {
	// the corpus shipped with the repo must stay loadable
	set, err := LoadFixtures(filepath.Join("..", "data", "test_data_complete.json"))
	require.NoError(t, err)

	assert.NotEmpty(t, set.Conversations)
	for _, cat := range Categories {
		assert.NotEmpty(t, set.Questions[cat], cat)
		for _, q := range set.Questions[cat] {
			assert.NotEmpty(t, q.Keywords, q.Message)
		}
	}
}
