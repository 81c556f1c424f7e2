package generate

import (
	"context"
	"fmt"
	"strings"

	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// StepClarifier rewrites a single tutorial step in plainer wording. On
// failure callers get the original step text back unchanged.
type StepClarifier struct {
	llm    llm.Provider
	logger logger.ILogger
}

func NewStepClarifier(provider llm.Provider, log logger.ILogger) *StepClarifier {
	return &StepClarifier{llm: provider, logger: log}
}

func (c *StepClarifier) Clarify(ctx context.Context, stepText string, stepNumber int, language state.Language) string {
	systemPrompt := "Explain this step more clearly."
	if language.IsUrdu() {
		systemPrompt = "Explain this step in clearer Roman-Urdu."
	}

	content, err := c.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Step %d: %s", stepNumber, stepText)},
	}, llm.WithTemperature(0.3))
	if err != nil {
		c.logger.Warn("clarify", "step clarification failed, returning original", map[string]interface{}{
			"step":  stepNumber,
			"error": err.Error(),
		})
		return stepText
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return stepText
	}
	return content
}
