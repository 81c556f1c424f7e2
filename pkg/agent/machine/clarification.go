package machine

import (
	"context"

	"portal-assistant-be/pkg/agent/state"
)

// clarificationAgent asks which step to explain when the user requested
// clarification without naming one. With a step number present the turn
// belongs to the tutorial agent.
func (e *Engine) clarificationAgent(ctx context.Context, s *state.State) {
	if !s.RequiresClarification {
		e.tutorialAgent(ctx, s)
		return
	}

	suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentClarify, s.ConversationHistory, s.DetectedLanguage)

	s.Response = &state.Response{
		Type:             state.ResponseClarifyQuestion,
		Content:          "Which step would you like me to explain?",
		SuggestedActions: suggestions,
	}
	s.Suggestions = suggestions
	s.Visit(state.NodeClarificationAgent)
}
