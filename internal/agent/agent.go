package agent

import (
	"context"
	"strings"

	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/llm"
	"codeberg.org/algopatterns/catalog/internal/logger"
)

func New(generator llm.TextGenerator, cfg Config) *Agent {
	if cfg.PromptTokenBudget <= 0 {
		cfg.PromptTokenBudget = defaultPromptTokenBudget
	}

	return &Agent{
		generator:    generator,
		promptBudget: cfg.PromptTokenBudget,
		timeout:      cfg.Timeout,
	}
}

func (a *Agent) Model() string {
	return a.generator.Model()
}

// issues at most one completion call and never returns an error:
// provider failures degrade to ErrorAnswer
func (a *Agent) Answer(ctx context.Context, question string, rows []evidence.Row, scope *string) Answer {
	if len(rows) == 0 {
		return Answer{Text: FallbackAnswer}
	}

	userPrompt, included := selectEvidence(rows, question, scope, a.promptBudget)

	log := logger.FromContext(ctx)

	if len(included) < len(rows) {
		log.Debugw("evidence truncated to fit prompt budget",
			"included", len(included),
			"retrieved", len(rows),
			"budget", a.promptBudget,
		)
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.generator.GenerateText(callCtx, llm.TextGenerationRequest{
		SystemPrompt: systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		log.Warnw("answer generation failed", "model", a.generator.Model(), "error", err)
		return Answer{Text: ErrorAnswer, Failed: true}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = FallbackAnswer
	}

	return Answer{
		Text:      text,
		Citations: included,
		Model:     a.generator.Model(),
	}
}
