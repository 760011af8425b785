package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gateway is the slice of the memory client the orchestrator depends on.
type Gateway interface {
	HealthCheck(ctx context.Context) bool
	Add(ctx context.Context, messages []Message, sessionID, agentID, userID string) AddResult
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) RetrieveResult
}

// StoreRecord captures one store-phase call.
type StoreRecord struct {
	Index       int
	SessionDate string
	Success     bool
	Entities    int
	Edges       int
}

// Verification captures one retrieval test case after keyword scoring.
type Verification struct {
	Index        int
	Query        string
	Keywords     []string
	Matched      []string
	Missing      []string
	Rate         float64
	Passed       bool
	EpisodeCount int
	EdgeCount    int
	SummaryCount int
	Memories     []MemorySnippet
}

// RunResults accumulates a run's outcomes. It is append-only during the run
// and read-only afterwards; the report generator consumes it as-is.
type RunResults struct {
	RunID         string
	TestDate      time.Time
	StoreResults  []StoreRecord
	RecallResults map[string][]Verification
}

func NewRunResults() *RunResults {
	recall := make(map[string][]Verification, len(Categories))
	for _, cat := range Categories {
		recall[cat] = nil
	}
	return &RunResults{
		RunID:         uuid.NewString(),
		TestDate:      time.Now(),
		RecallResults: recall,
	}
}

// FixtureLoader supplies the test corpus to the store and retrieve tiers.
type FixtureLoader func() (*FixtureSet, error)

// Runner drives the test tiers against a memory server.
type Runner struct {
	gateway     Gateway
	fixtures    FixtureLoader
	pacer       Pacer
	out         io.Writer
	strictSmoke bool
	results     *RunResults
}

type RunnerOption func(*Runner)

// WithPacer overrides the inter-call pacing strategy.
func WithPacer(p Pacer) RunnerOption {
	return func(r *Runner) { r.pacer = p }
}

// WithOutput redirects the runner's progress output.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// WithStrictSmoke makes a quick-smoke failure flip the overall result of the
// all tier. Off by default: historically the all tier's signal follows the
// full tier only.
func WithStrictSmoke(strict bool) RunnerOption {
	return func(r *Runner) { r.strictSmoke = strict }
}

func NewRunner(gateway Gateway, fixtures FixtureLoader, opts ...RunnerOption) *Runner {
	r := &Runner{
		gateway:  gateway,
		fixtures: fixtures,
		pacer:    SleepPacer(),
		out:      os.Stdout,
		results:  NewRunResults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Results returns the run's accumulated results.
func (r *Runner) Results() *RunResults {
	return r.results
}

// CheckServer is the fatal precondition for every tier: if the health probe
// fails, the run must not proceed to any phase.
func (r *Runner) CheckServer(ctx context.Context) bool {
	fmt.Fprint(r.out, "Checking server... ")
	if !r.gateway.HealthCheck(ctx) {
		fmt.Fprintln(r.out, Red.Render("FAILED"))
		fmt.Fprintf(r.out, "%s Server not running. Start with: ./bin/memory -config configs/config.toml\n", Red.Render("[ERROR]"))
		return false
	}
	fmt.Fprintln(r.out, Green.Render("OK"))
	return true
}

var quickCases = []struct {
	name     string
	messages []Message
}{
	{"Weather", []Message{
		{Role: RoleUser, Name: "小明", Content: "今天天气真好"},
		{Role: RoleAssistant, Content: "是啊，适合出去走走！"},
	}},
	{"Programming", []Message{
		{Role: RoleUser, Name: "小明", Content: "我在学 Python"},
		{Role: RoleAssistant, Content: "Python 很适合入门！"},
	}},
}

// RunQuick replays a small canned set of exchanges through add. The tier
// short-circuits on the first failure.
func (r *Runner) RunQuick(ctx context.Context) bool {
	r.banner("Quick Test")

	for i, tc := range quickCases {
		fmt.Fprintf(r.out, "[%d/%d] %s... ", i+1, len(quickCases), tc.name)
		res := r.gateway.Add(ctx, tc.messages, fmt.Sprintf("quick_%d", i+1), "test", "小明")
		if !res.Success {
			fmt.Fprintf(r.out, "%s: %s\n", Red.Render("FAILED"), res.Err)
			return false
		}
		fmt.Fprintf(r.out, "%s (ent:%d, edge:%d)\n", Green.Render("OK"), res.Entities, res.Edges)
		r.pacer.Pause(QuickDelay)
	}

	fmt.Fprintln(r.out, "\nQuick test passed!")
	return true
}

// RunStore replays every fixture conversation through add, in fixture order.
// Individual failures are recorded but do not abort the tier.
func (r *Runner) RunStore(ctx context.Context) bool {
	r.banner("Store Test")

	set, err := r.fixtures()
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", Red.Render("[ERROR]"), err)
		return false
	}

	success := 0
	for i, conv := range set.Conversations {
		fmt.Fprintf(r.out, "[%2d/%d] %s... ", i+1, len(set.Conversations), conv.SessionDate)
		res := r.gateway.Add(ctx, conv.Messages, conv.SessionID, "", "")

		if res.Success {
			success++
			fmt.Fprintf(r.out, "%s (ent:%d, edge:%d)\n", Green.Render("OK"), res.Entities, res.Edges)
		} else {
			fmt.Fprintf(r.out, "%s: %s\n", Red.Render("FAIL"), truncate(res.Err, 40))
		}

		r.results.StoreResults = append(r.results.StoreResults, StoreRecord{
			Index:       i + 1,
			SessionDate: conv.SessionDate,
			Success:     res.Success,
			Entities:    res.Entities,
			Edges:       res.Edges,
		})
		r.pacer.Pause(StoreDelay)
	}

	fmt.Fprintf(r.out, "\nStore: %d/%d\n", success, len(set.Conversations))
	return success == len(set.Conversations)
}

// RunRetrieve asks every fixture question in fixed category order, scores
// the retrieved memories against the expected keywords and records one
// verification per question. A failed retrieve still yields a record: its
// memory set is empty, so every keyword is missing.
func (r *Runner) RunRetrieve(ctx context.Context) bool {
	r.banner("Retrieve Test")

	set, err := r.fixtures()
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", Red.Render("[ERROR]"), err)
		return false
	}

	totalPassed := 0
	totalTests := 0

	for _, cat := range Categories {
		questions := set.Questions[cat]
		if len(questions) == 0 {
			continue
		}

		fmt.Fprintf(r.out, "\n[%s]\n", categoryName(cat))
		for i, q := range questions {
			fmt.Fprintf(r.out, "  %d. %s ", i+1, truncate(q.Message, 35))

			res := r.gateway.Retrieve(ctx, q.Message, DefaultRetrieveOptions())
			memories := res.AllMemories()
			matched, missing := CheckKeywords(memories, q.Keywords)
			rate := MatchRate(len(matched), len(q.Keywords))
			passed := rate >= PassThreshold

			ep, ed, su := len(res.Episodes), len(res.Edges), len(res.Summaries)
			status := Green.Render("PASS")
			if !passed {
				status = Red.Render("FAIL")
			}
			fmt.Fprintf(r.out, "%s (%d/%dkw, Ep:%d Ed:%d Su:%d)\n", status, len(matched), len(q.Keywords), ep, ed, su)

			r.results.RecallResults[cat] = append(r.results.RecallResults[cat], Verification{
				Index:        i + 1,
				Query:        q.Message,
				Keywords:     q.Keywords,
				Matched:      matched,
				Missing:      missing,
				Rate:         rate,
				Passed:       passed,
				EpisodeCount: ep,
				EdgeCount:    ed,
				SummaryCount: su,
				Memories:     memories,
			})

			totalTests++
			if passed {
				totalPassed++
			}
			r.pacer.Pause(RetrieveDelay)
		}
	}

	fmt.Fprintf(r.out, "\nRetrieve: %d/%d (%.0f%%)\n", totalPassed, totalTests, MatchRate(totalPassed, totalTests)*100)
	return totalPassed == totalTests
}

// RunFull stores the corpus, waits for server-side indexing to settle, then
// runs the retrieval tests.
func (r *Runner) RunFull(ctx context.Context) bool {
	storeOK := r.RunStore(ctx)
	fmt.Fprintln(r.out, "\nWaiting for index (2s)...")
	r.pacer.Pause(SettleDelay)
	fmt.Fprintln(r.out)
	retrieveOK := r.RunRetrieve(ctx)
	return storeOK && retrieveOK
}

// RunAll runs the quick smoke tier followed by the full tier. Unless strict
// smoke mode is on, the overall signal follows the full tier only; a smoke
// failure is visible in the output but does not flip the result.
func (r *Runner) RunAll(ctx context.Context) bool {
	quickOK := r.RunQuick(ctx)
	if !quickOK {
		fmt.Fprintf(r.out, "%s quick smoke test failed\n", Yellow.Render("[WARN]"))
	}
	fmt.Fprintln(r.out)
	fullOK := r.RunFull(ctx)
	if r.strictSmoke {
		return quickOK && fullOK
	}
	return fullOK
}

// PrintSummary prints per-category and overall pass counts. It only reads
// the accumulated results; calling it repeatedly yields identical output.
func (r *Runner) PrintSummary() {
	fmt.Fprintln(r.out)
	r.banner("Summary")

	for _, cat := range Categories {
		records := r.results.RecallResults[cat]
		if len(records) == 0 {
			continue
		}
		fmt.Fprintf(r.out, "  %s: %d/%d\n", cat, passCount(records), len(records))
	}

	total := 0
	passed := 0
	for _, records := range r.results.RecallResults {
		total += len(records)
		passed += passCount(records)
	}
	if total > 0 {
		fmt.Fprintf(r.out, "  Overall: %d/%d (%.0f%%)\n", passed, total, MatchRate(passed, total)*100)
	}
}

func (r *Runner) banner(title string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, line)
}

func passCount(records []Verification) int {
	n := 0
	for _, rec := range records {
		if rec.Passed {
			n++
		}
	}
	return n
}

func categoryName(cat string) string {
	switch cat {
	case CategoryBasicRecall:
		return "Basic"
	case CategoryTemporal:
		return "Temporal"
	case CategoryCausal:
		return "Causal"
	default:
		return cat
	}
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
// Truncation is rune-based: the fixture corpus is largely CJK.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
