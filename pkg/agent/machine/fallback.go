package machine

import (
	"context"

	"portal-assistant-be/pkg/agent/state"
)

// fallbackAgent catches low-confidence and out-of-scope turns with a
// gentle redirect and grounded suggestions.
func (e *Engine) fallbackAgent(ctx context.Context, s *state.State) {
	suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentFallback, s.ConversationHistory, s.DetectedLanguage)

	s.Response = &state.Response{
		Type:             state.ResponseFallback,
		Content:          "How can I help you today?",
		SuggestedActions: suggestions,
	}
	s.Suggestions = suggestions
	s.Visit(state.NodeFallbackAgent)
}
