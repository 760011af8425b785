package main

import (
	"context"
	"fmt"
	"io"

	"github.com/4thel00z/memctl/internal"
	"github.com/spf13/cobra"
)

func NewTestCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:       "test [quick|store|retrieve|full|all]",
		Short:     "Run tests against the memory server",
		Long:      `Run one of the test tiers: quick (canned smoke test), store (replay fixture conversations), retrieve (retrieval quality), full (store + retrieve) or all (quick + full). Defaults to all.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"quick", "store", "retrieve", "full", "all"},
		RunE:      makeTestRunner(appFor),
	}
}

func makeTestRunner(appFor appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}

		mode := "all"
		if len(args) > 0 {
			mode = args[0]
		}

		return runTests(cmd.Context(), a, cmd.OutOrStdout(), mode)
	}
}

func runTests(ctx context.Context, a *app, out io.Writer, mode string) error {
	runner := internal.NewRunner(
		a.client,
		func() (*internal.FixtureSet, error) { return internal.LoadFixtures(a.cfg.Test.DataFile) },
		internal.WithPacer(a.pacer),
		internal.WithOutput(out),
		internal.WithStrictSmoke(a.cfg.Test.StrictSmoke),
	)

	if !runner.CheckServer(ctx) {
		return fmt.Errorf("server health check failed")
	}
	fmt.Fprintln(out)

	var ok bool
	switch mode {
	case "quick":
		ok = runner.RunQuick(ctx)
	case "store":
		ok = runner.RunStore(ctx)
	case "retrieve":
		ok = runner.RunRetrieve(ctx)
		runner.PrintSummary()
	case "full":
		ok = runner.RunFull(ctx)
		runner.PrintSummary()
	case "all":
		ok = runner.RunAll(ctx)
		runner.PrintSummary()
	default:
		return fmt.Errorf("unknown test mode %q", mode)
	}

	if mode == "retrieve" || mode == "full" || mode == "all" {
		summary, detail, err := internal.WriteReports(a.cfg.Test.ReportDir, runner.Results())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReports: %s, %s\n", summary, detail)
	}

	if !ok {
		return fmt.Errorf("test %s failed", mode)
	}
	return nil
}
