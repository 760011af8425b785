package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewInitCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize indexes",
		Long:  `Create the OpenSearch k-NN index and the Neo4j entity indexes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			runInit(cmd.Context(), a, cmd.OutOrStdout())
			return nil
		},
	}
}

func runInit(ctx context.Context, a *app, out io.Writer) {
	fmt.Fprintf(out, "Initializing index '%s'...\n", a.cfg.Index)
	printResult(out, "OpenSearch", a.search.Create(ctx, a.cfg.Index) == nil)
	printResult(out, "Neo4j", a.graph.Init(ctx) == nil)
	fmt.Fprintln(out, "Done.")
}
