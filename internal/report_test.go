package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportResults() *RunResults {
	res := NewRunResults()
	res.TestDate = time.Date(2025, 3, 15, 14, 30, 5, 0, time.UTC)
	res.RecallResults[CategoryBasicRecall] = []Verification{
		{
			Index:        1,
			Query:        "阿信搬到了哪个城市？",
			Keywords:     []string{"杭州", "西湖区"},
			Matched:      []string{"杭州", "西湖区"},
			Rate:         1.0,
			Passed:       true,
			EpisodeCount: 2,
			EdgeCount:    1,
			Memories: []MemorySnippet{
				{Type: SnippetEpisode, Content: "阿信上周搬到了杭州西湖区"},
				{Type: SnippetEdge, Content: "阿信住在杭州"},
			},
		},
	}
	res.RecallResults[CategoryCausal] = []Verification{
		{
			Index:    1,
			Query:    "阿信为什么感冒了？",
			Keywords: []string{"淋雨", "着凉"},
			Missing:  []string{"淋雨", "着凉"},
			Rate:     0,
			Passed:   false,
		},
	}
	return res
}

func TestGenerateSummary(t *testing.T) {
	out := GenerateSummary(reportResults())

	assert.Contains(t, out, "# Test Results")
	assert.Contains(t, out, "Date: 2025-03-15 14:30:05")

	assert.Contains(t, out, "## Basic")
	assert.Contains(t, out, "| # | Query | Ep | Ed | Su | KW | Status |")
	assert.Contains(t, out, "| 1 | 阿信搬到了哪个城市？ | 2 | 1 | 0 | 2/2 | PASS |")
	assert.Contains(t, out, "| 1 | 阿信为什么感冒了？ | 0 | 0 | 0 | 0/2 | FAIL |")
	// no questions ran for the temporal category, so no section either
	assert.NotContains(t, out, "## Temporal")
}

func TestGenerateSummaryTruncatesLongQueries(t *testing.T) {
	res := NewRunResults()
	long := strings.Repeat("长", 30)
	res.RecallResults[CategoryBasicRecall] = []Verification{{Index: 1, Query: long, Keywords: []string{"x"}}}

	out := GenerateSummary(res)

	assert.Contains(t, out, strings.Repeat("长", 25)+"...")
	assert.NotContains(t, out, strings.Repeat("长", 26))
}

func TestGenerateDetail(t *testing.T) {
	out := GenerateDetail(reportResults())

	assert.Contains(t, out, "# Detailed Results")
	assert.Contains(t, out, "## [PASS] 阿信搬到了哪个城市？")
	assert.Contains(t, out, "- Matched: 杭州, 西湖区")
	assert.Contains(t, out, "- Missing: None")
	assert.Contains(t, out, "**Memories:**")
	assert.Contains(t, out, "- [episode] 阿信上周搬到了杭州西湖区")
	assert.Contains(t, out, "- [edge] 阿信住在杭州")

	assert.Contains(t, out, "## [FAIL] 阿信为什么感冒了？")
	assert.Contains(t, out, "- Matched: None")
	assert.Contains(t, out, "- Missing: 淋雨, 着凉")
}

func TestGenerateIsPure(t *testing.T) {
	res := reportResults()

	assert.Equal(t, GenerateSummary(res), GenerateSummary(res))
	assert.Equal(t, GenerateDetail(res), GenerateDetail(res))
}

func TestReportPaths(t *testing.T) {
	ts := time.Date(2025, 3, 15, 14, 30, 5, 0, time.UTC)
	summary, detail := ReportPaths("data", ts)

	assert.Equal(t, filepath.Join("data", "test_results_2025-03-15_143005.md"), summary)
	assert.Equal(t, filepath.Join("data", "test_results_detail_2025-03-15_143005.md"), detail)
}

func TestWriteReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	res := reportResults()

	summaryPath, detailPath, err := WriteReports(dir, res)
	require.NoError(t, err)

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "# Test Results")

	detail, err := os.ReadFile(detailPath)
	require.NoError(t, err)
	assert.Contains(t, string(detail), "# Detailed Results")
}
