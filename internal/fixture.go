package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// Recall categories, in the order the retrieval test iterates them.
const (
	CategoryBasicRecall = "basic_recall"
	CategoryTemporal    = "temporal"
	CategoryCausal      = "causal"
)

// Categories lists the recall categories in test order.
var Categories = []string{CategoryBasicRecall, CategoryTemporal, CategoryCausal}

// Conversation is one fixture session to replay through the server.
type Conversation struct {
	SessionID   string    `json:"session_id"`
	SessionDate string    `json:"session_date"`
	Messages    []Message `json:"messages"`
}

// Question is one retrieval test case: a query plus the keywords its
// retrieved memories are expected to contain.
type Question struct {
	Message  string   `json:"message"`
	Keywords []string `json:"keywords"`
}

// FixtureSet is the test corpus: conversations to store and questions to
// ask afterwards, grouped by recall category.
type FixtureSet struct {
	Conversations []Conversation        `json:"conversations"`
	Questions     map[string][]Question `json:"test_questions"`
}

// LoadFixtures reads the fixture corpus from path. Loading is read-only and
// idempotent; test tiers may call it repeatedly within one run.
func LoadFixtures(path string) (*FixtureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var set FixtureSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	if set.Questions == nil {
		set.Questions = make(map[string][]Question)
	}

	return &set, nil
}
