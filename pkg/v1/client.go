// Package v1 provides programmatic access to a running memory server using
// the same gateway the memctl CLI drives.
package v1

import (
	"context"
	"time"

	"github.com/4thel00z/memctl/internal"
)

// Client provides programmatic access to a memory server.
type Client struct {
	mc *internal.MemoryClient
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	defaults := internal.DefaultConfig().Server
	cfg := &clientConfig{
		baseURL: defaults.BaseURL,
		agentID: defaults.AgentID,
		userID:  defaults.UserID,
		timeout: defaults.AddTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	server := internal.ServerConfig{
		BaseURL:         cfg.baseURL,
		AgentID:         cfg.agentID,
		UserID:          cfg.userID,
		AddTimeout:      cfg.timeout,
		RetrieveTimeout: 60 * time.Second,
		HealthTimeout:   5 * time.Second,
	}

	return &Client{mc: internal.NewMemoryClient(server)}, nil
}

// Health reports whether the server answers its health probe.
func (c *Client) Health(ctx context.Context) bool {
	return c.mc.HealthCheck(ctx)
}

// Add replays a conversation through the server's memory extraction.
func (c *Client) Add(ctx context.Context, messages []Message, sessionID string) AddOutcome {
	converted := make([]internal.Message, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, internal.Message(m))
	}

	res := c.mc.Add(ctx, converted, sessionID, "", "")
	return AddOutcome{
		Success:   res.Success,
		Episodes:  res.Episodes,
		Entities:  res.Entities,
		Edges:     res.Edges,
		Summaries: res.Summaries,
		Error:     res.Err,
	}
}

// Retrieve queries the server for memories relevant to query, flattened
// into a single ordered sequence.
func (c *Client) Retrieve(ctx context.Context, query string) RetrieveOutcome {
	res := c.mc.Retrieve(ctx, query, internal.DefaultRetrieveOptions())

	memories := res.AllMemories()
	snippets := make([]Snippet, 0, len(memories))
	for _, m := range memories {
		snippets = append(snippets, Snippet(m))
	}

	return RetrieveOutcome{
		Success:  res.Success,
		Memories: snippets,
		Context:  res.MemoryContext,
		Error:    res.Err,
	}
}
