package main

import (
	"fmt"
	"strings"

	"github.com/4thel00z/memctl/internal"
	"github.com/spf13/cobra"
)

func NewStatusCmd(appFor appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		Long:  `Probe the memory server, OpenSearch and Neo4j and print their status.`,
		RunE:  makeStatusRunner(appFor),
	}
}

func makeStatusRunner(appFor appFactory) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Service Status")
		fmt.Fprintln(out, strings.Repeat("-", 40))

		serverStatus := internal.Red.Render("OFFLINE")
		if a.client.HealthCheck(ctx) {
			serverStatus = internal.Green.Render("OK")
		}
		fmt.Fprintf(out, "Memory Server:  %s\n", serverStatus)

		if cluster := a.search.Status(ctx); cluster.Online {
			count, _ := a.search.Count(ctx, a.cfg.Index)
			fmt.Fprintf(out, "OpenSearch:     %s (v%s, %d docs)\n", internal.Green.Render("OK"), cluster.Version, count)
		} else {
			fmt.Fprintf(out, "OpenSearch:     %s\n", internal.Red.Render("OFFLINE"))
		}

		if a.graph.Status(ctx) {
			count, _ := a.graph.NodeCount(ctx)
			fmt.Fprintf(out, "Neo4j:          %s (%d nodes)\n", internal.Green.Render("OK"), count)
		} else {
			fmt.Fprintf(out, "Neo4j:          %s\n", internal.Red.Render("OFFLINE"))
		}

		return nil
	}
}
