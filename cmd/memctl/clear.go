package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewClearCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all data",
		Long:  `Delete the OpenSearch index and every node in the Neo4j graph.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			runClear(cmd.Context(), a, cmd.OutOrStdout())
			return nil
		},
	}
}

func runClear(ctx context.Context, a *app, out io.Writer) {
	fmt.Fprintf(out, "Clearing index '%s'...\n", a.cfg.Index)
	printResult(out, "OpenSearch", a.search.Delete(ctx, a.cfg.Index) == nil)
	printResult(out, "Neo4j", a.graph.Clear(ctx) == nil)
	fmt.Fprintln(out, "Done.")
}
