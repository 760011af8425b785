package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GenerateSummary renders the summary report: one markdown table per
// non-empty category with per-question counts and pass/fail status.
func GenerateSummary(res *RunResults) string {
	var b strings.Builder
	b.WriteString("# Test Results\n\n")
	fmt.Fprintf(&b, "Date: %s\n", res.TestDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)

	for _, cat := range Categories {
		records := res.RecallResults[cat]
		if len(records) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\n", categoryName(cat))
		b.WriteString("| # | Query | Ep | Ed | Su | KW | Status |\n")
		b.WriteString("|---|-------|---|---|---|---|--------|\n")
		for _, rec := range records {
			status := "PASS"
			if !rec.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(&b, "| %d | %s | %d | %d | %d | %d/%d | %s |\n",
				rec.Index, truncate(rec.Query, 25),
				rec.EpisodeCount, rec.EdgeCount, rec.SummaryCount,
				len(rec.Matched), len(rec.Keywords), status)
		}
	}

	return b.String()
}

// GenerateDetail renders the detail report: one section per verification
// with the matched/missing keyword lists and every retrieved memory.
func GenerateDetail(res *RunResults) string {
	var b strings.Builder
	b.WriteString("# Detailed Results\n\n")
	fmt.Fprintf(&b, "Date: %s\n", res.TestDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)

	for _, cat := range Categories {
		for _, rec := range res.RecallResults[cat] {
			status := "PASS"
			if !rec.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(&b, "\n## [%s] %s\n\n", status, rec.Query)
			fmt.Fprintf(&b, "- Matched: %s\n", joinOrNone(rec.Matched))
			fmt.Fprintf(&b, "- Missing: %s\n", joinOrNone(rec.Missing))
			if len(rec.Memories) > 0 {
				b.WriteString("\n**Memories:**\n")
				for _, m := range rec.Memories {
					fmt.Fprintf(&b, "- [%s] %s\n", m.Type, m.Content)
				}
			}
		}
	}

	return b.String()
}

// ReportPaths returns the summary and detail file paths for a run started
// at ts. The timestamp in the names keeps repeated runs from colliding.
func ReportPaths(dir string, ts time.Time) (summary, detail string) {
	stamp := ts.Format("2006-01-02_150405")
	summary = filepath.Join(dir, fmt.Sprintf("test_results_%s.md", stamp))
	detail = filepath.Join(dir, fmt.Sprintf("test_results_detail_%s.md", stamp))
	return summary, detail
}

// WriteReports renders both reports and writes them under dir, returning
// the two file paths.
func WriteReports(dir string, res *RunResults) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}

	summaryPath, detailPath := ReportPaths(dir, res.TestDate)

	if err := os.WriteFile(summaryPath, []byte(GenerateSummary(res)), 0644); err != nil {
		return "", "", fmt.Errorf("write summary report: %w", err)
	}
	if err := os.WriteFile(detailPath, []byte(GenerateDetail(res)), 0644); err != nil {
		return "", "", fmt.Errorf("write detail report: %w", err)
	}

	return summaryPath, detailPath, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
