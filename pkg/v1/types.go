package v1

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// AddOutcome reports what the server extracted from an added conversation.
type AddOutcome struct {
	Success   bool   `json:"success"`
	Episodes  int    `json:"episodes"`
	Entities  int    `json:"entities"`
	Edges     int    `json:"edges"`
	Summaries int    `json:"summaries"`
	Error     string `json:"error,omitempty"`
}

// Snippet is one retrieved memory in flattened form.
type Snippet struct {
	Type    string  `json:"type"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// RetrieveOutcome reports the memories retrieved for a query.
type RetrieveOutcome struct {
	Success  bool      `json:"success"`
	Memories []Snippet `json:"memories"`
	Context  string    `json:"memory_context,omitempty"`
	Error    string    `json:"error,omitempty"`
}
