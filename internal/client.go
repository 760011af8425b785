package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of a conversation sent to the memory server.
type Message struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AddResult is the outcome of a single add call. Failures are carried in
// Err; the gateway never returns a transport error directly so test loops
// can keep going past individual failures.
type AddResult struct {
	Success   bool
	Episodes  int
	Entities  int
	Edges     int
	Summaries int
	Err       string
}

// MemoryCount returns the number of graph memories produced by the call.
func (r AddResult) MemoryCount() int {
	return r.Entities + r.Edges
}

// MemoryItem is one retrieved unit as returned by the server. Episodes and
// summaries carry Content; edges carry Fact.
type MemoryItem struct {
	Content string  `json:"content"`
	Fact    string  `json:"fact"`
	Score   float64 `json:"score"`
}

const (
	SnippetEpisode = "episode"
	SnippetEdge    = "edge"
	SnippetSummary = "summary"
)

// MemorySnippet is the flattened view of a retrieved memory used by the
// keyword verifier and the detail report.
type MemorySnippet struct {
	Type    string  `json:"type"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// RetrieveResult is the outcome of a single retrieve call.
type RetrieveResult struct {
	Success       bool
	Episodes      []MemoryItem
	Entities      []MemoryItem
	Edges         []MemoryItem
	Summaries     []MemoryItem
	MemoryContext string
	Err           string
}

// Total returns the number of retrievable memories in the result.
func (r RetrieveResult) Total() int {
	return len(r.Episodes) + len(r.Edges) + len(r.Summaries)
}

// AllMemories flattens episodes, edges and summaries into one sequence,
// preserving source order. Edges expose their fact text as content.
func (r RetrieveResult) AllMemories() []MemorySnippet {
	memories := make([]MemorySnippet, 0, r.Total())
	for _, ep := range r.Episodes {
		memories = append(memories, MemorySnippet{Type: SnippetEpisode, Content: ep.Content, Score: ep.Score})
	}
	for _, edge := range r.Edges {
		memories = append(memories, MemorySnippet{Type: SnippetEdge, Content: edge.Fact, Score: edge.Score})
	}
	for _, sum := range r.Summaries {
		memories = append(memories, MemorySnippet{Type: SnippetSummary, Content: sum.Content, Score: sum.Score})
	}
	return memories
}

// RetrieveOptions bounds a retrieve call. For the Max* caps, -1 disables the
// category, 0 selects the service default and >0 sets a custom cap. A zero
// Limit falls back to 10 and a zero MaxHops to 2.
type RetrieveOptions struct {
	AgentID      string
	UserID       string
	SessionID    string
	Limit        int
	MaxHops      int
	MaxTokens    int
	MaxSummaries int
	MaxEdges     int
	MaxEntities  int
	MaxEpisodes  int
}

// DefaultRetrieveOptions returns the options used by the retrieval tests.
func DefaultRetrieveOptions() RetrieveOptions {
	return RetrieveOptions{Limit: 10, MaxHops: 2}
}

// MemoryClient drives the memory server's HTTP API.
type MemoryClient struct {
	cfg  ServerConfig
	http *http.Client
}

func NewMemoryClient(cfg ServerConfig) *MemoryClient {
	if cfg.AddTimeout <= 0 {
		cfg.AddTimeout = 120 * time.Second
	}
	if cfg.RetrieveTimeout <= 0 {
		cfg.RetrieveTimeout = 60 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	return &MemoryClient{cfg: cfg, http: &http.Client{}}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type healthResponse struct {
	Success bool `json:"success"`
}

// HealthCheck probes the server's health endpoint. It returns false on any
// transport failure, non-success status or malformed body; it never errors.
func (c *MemoryClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Success
}

type addRequest struct {
	AgentID   string    `json:"agent_id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

type addData struct {
	Success   *bool            `json:"success"`
	Episodes  []json.RawMessage `json:"episodes"`
	Entities  []json.RawMessage `json:"entities"`
	Edges     []json.RawMessage `json:"edges"`
	Summaries []json.RawMessage `json:"summaries"`
}

// Add replays a conversation through the server. Empty agentID/userID fall
// back to the configured defaults and are then overridden by the last named
// user/assistant message in the conversation.
func (c *MemoryClient) Add(ctx context.Context, messages []Message, sessionID, agentID, userID string) AddResult {
	agentID, userID = c.resolveIdentities(messages, agentID, userID)

	payload := addRequest{
		AgentID:   agentID,
		UserID:    userID,
		SessionID: sessionID,
		Messages:  messages,
	}

	env, err := c.postJSON(ctx, c.cfg.APIURL()+"/memories/add", payload, c.cfg.AddTimeout)
	if err != nil {
		return AddResult{Err: err.Error()}
	}
	if !env.Success {
		return AddResult{Err: errorOrUnknown(env.Error)}
	}

	var data addData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return AddResult{Err: fmt.Sprintf("decode add response: %v", err)}
	}

	return AddResult{
		Success:   data.Success == nil || *data.Success,
		Episodes:  len(data.Episodes),
		Entities:  len(data.Entities),
		Edges:     len(data.Edges),
		Summaries: len(data.Summaries),
	}
}

func (c *MemoryClient) resolveIdentities(messages []Message, agentID, userID string) (string, string) {
	explicitAgent := agentID != ""
	explicitUser := userID != ""

	if !explicitAgent {
		agentID = c.cfg.AgentID
	}
	if !explicitUser {
		userID = c.cfg.UserID
	}

	for _, msg := range messages {
		switch {
		case !explicitUser && msg.Role == RoleUser && msg.Name != "":
			userID = msg.Name
		case !explicitAgent && msg.Role == RoleAssistant && msg.Name != "":
			agentID = msg.Name
		}
	}

	return agentID, userID
}

type retrieveRequest struct {
	AgentID   string           `json:"agent_id"`
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	Query     string           `json:"query"`
	Limit     int              `json:"limit"`
	Options   retrieveCapsBody `json:"options"`
}

type retrieveCapsBody struct {
	MaxHops      int `json:"max_hops"`
	MaxTokens    int `json:"max_tokens"`
	MaxSummaries int `json:"max_summaries"`
	MaxEdges     int `json:"max_edges"`
	MaxEntities  int `json:"max_entities"`
	MaxEpisodes  int `json:"max_episodes"`
}

type retrieveData struct {
	Success       *bool        `json:"success"`
	Episodes      []MemoryItem `json:"episodes"`
	Entities      []MemoryItem `json:"entities"`
	Edges         []MemoryItem `json:"edges"`
	Summaries     []MemoryItem `json:"summaries"`
	MemoryContext string       `json:"memory_context"`
}

// Retrieve queries the server for memories relevant to query.
func (c *MemoryClient) Retrieve(ctx context.Context, query string, opts RetrieveOptions) RetrieveResult {
	if opts.AgentID == "" {
		opts.AgentID = c.cfg.AgentID
	}
	if opts.UserID == "" {
		opts.UserID = c.cfg.UserID
	}
	if opts.Limit == 0 {
		opts.Limit = 10
	}
	if opts.MaxHops == 0 {
		opts.MaxHops = 2
	}

	payload := retrieveRequest{
		AgentID:   opts.AgentID,
		UserID:    opts.UserID,
		SessionID: opts.SessionID,
		Query:     query,
		Limit:     opts.Limit,
		Options: retrieveCapsBody{
			MaxHops:      opts.MaxHops,
			MaxTokens:    opts.MaxTokens,
			MaxSummaries: opts.MaxSummaries,
			MaxEdges:     opts.MaxEdges,
			MaxEntities:  opts.MaxEntities,
			MaxEpisodes:  opts.MaxEpisodes,
		},
	}

	env, err := c.postJSON(ctx, c.cfg.APIURL()+"/memories/retrieve", payload, c.cfg.RetrieveTimeout)
	if err != nil {
		return RetrieveResult{Err: err.Error()}
	}
	if !env.Success {
		return RetrieveResult{Err: errorOrUnknown(env.Error)}
	}

	var data retrieveData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return RetrieveResult{Err: fmt.Sprintf("decode retrieve response: %v", err)}
	}

	return RetrieveResult{
		Success:       data.Success == nil || *data.Success,
		Episodes:      data.Episodes,
		Entities:      data.Entities,
		Edges:         data.Edges,
		Summaries:     data.Summaries,
		MemoryContext: data.MemoryContext,
	}
}

func (c *MemoryClient) postJSON(ctx context.Context, url string, payload any, timeout time.Duration) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

func errorOrUnknown(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	return msg
}
