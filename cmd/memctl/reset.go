package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewResetCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear and re-initialize indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			runReset(cmd.Context(), a, cmd.OutOrStdout())
			return nil
		},
	}
}

func runReset(ctx context.Context, a *app, out io.Writer) {
	runClear(ctx, a, out)
	fmt.Fprintln(out)
	runInit(ctx, a, out)
}
