package main

import (
	"fmt"
	"io"

	"github.com/4thel00z/memctl/internal"
	"github.com/spf13/cobra"
)

// app bundles the clients a command needs, built from the resolved config.
type app struct {
	cfg    *internal.Config
	client *internal.MemoryClient
	search *internal.SearchAdmin
	graph  *internal.GraphAdmin
	pacer  internal.Pacer
}

// appFactory builds the app for a command invocation. Tests substitute a
// factory pointing at local fakes.
type appFactory func(cmd *cobra.Command) (*app, error)

func defaultAppFactory(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	index, _ := cmd.Flags().GetString("index")

	cfg, err := internal.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if index != "" {
		cfg.Index = index
	}

	search, err := internal.NewSearchAdmin(cfg.OpenSearch)
	if err != nil {
		return nil, fmt.Errorf("opensearch: %w", err)
	}

	graph, err := internal.NewGraphAdmin(cfg.Neo4j)
	if err != nil {
		return nil, fmt.Errorf("neo4j: %w", err)
	}

	return &app{
		cfg:    cfg,
		client: internal.NewMemoryClient(cfg.Server),
		search: search,
		graph:  graph,
		pacer:  internal.SleepPacer(),
	}, nil
}

func NewRootCmd(version string, appFor appFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memctl",
		Short:         "Operate and smoke-test a memory system stack",
		Long:          `Admin CLI for a memory server and its OpenSearch/Neo4j backends: initialize or clear indexes, check service status and run retrieval quality tests.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		NewStatusCmd(appFor),
		NewInitCmd(appFor),
		NewClearCmd(appFor),
		NewResetCmd(appFor),
		NewTestCmd(appFor),
		NewPreviewCmd(appFor),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "memctl.yaml", "Path to config file")
	cmd.PersistentFlags().StringP("index", "i", "", "Index name (overrides config)")
}

func printResult(w io.Writer, name string, ok bool) {
	status := internal.Green.Render("OK")
	if !ok {
		status = internal.Red.Render("FAILED")
	}
	fmt.Fprintf(w, "  %s... %s\n", name, status)
}
