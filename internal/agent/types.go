package agent

import (
	"time"

	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/llm"
)

const (
	// returned verbatim when evidence is missing or insufficient
	FallbackAnswer = "I don't know."

	// returned when the completion provider fails
	ErrorAnswer = "I encountered an error while generating the response."

	defaultPromptTokenBudget = 6000

	// floor for the top row when even it does not fit the budget
	minTopRowTokens = 64
)

// answers questions strictly from retrieved evidence
type Agent struct {
	generator    llm.TextGenerator
	promptBudget int
	timeout      time.Duration
}

type Config struct {
	PromptTokenBudget int
	Timeout           time.Duration
}

// the generated text plus the rows that were actually shown to the model
type Answer struct {
	Text      string
	Citations []evidence.Row
	Model     string // empty when no completion succeeded
	Failed    bool   // the provider call errored
}
