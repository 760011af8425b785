package main

import (
	"fmt"

	"github.com/4thel00z/memctl/internal"
	"github.com/spf13/cobra"
)

func NewPreviewCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:       "preview [quick|store|retrieve|full|all]",
		Short:     "Reset indexes, then run tests",
		Long:      `Full workflow against a clean slate: clear and re-initialize both backends, wait for them to settle, then run the given test tier (default full).`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"quick", "store", "retrieve", "full", "all"},
		RunE:      makePreviewRunner(appFor),
	}
}

func makePreviewRunner(appFor appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}

		mode := "full"
		if len(args) > 0 {
			mode = args[0]
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		runReset(ctx, a, out)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "Waiting for services (1s)...")
		a.pacer.Pause(internal.ResetDelay)
		fmt.Fprintln(out)

		return runTests(ctx, a, out, mode)
	}
}
