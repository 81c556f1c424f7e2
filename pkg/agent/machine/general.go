package machine

import (
	"context"
	"sync"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

const (
	generalSystemPromptEnglish = "You are MIRA, a Management Portal assistant. You must STRICTLY answer only in English. If the user speaks a different language (e.g., Spanish, French, Arabic), politely reply in English stating that you only support English and Roman Urdu."
	generalSystemPromptUrdu    = "You are MIRA, a Roman-Urdu Management Portal assistant. You must STRICTLY answer only in Roman Urdu. Do not use English script or any other language."
)

// generalAgent answers open conversation. Content generation and
// suggestion generation run concurrently.
func (e *Engine) generalAgent(ctx context.Context, s *state.State) {
	isUrdu := s.DetectedLanguage.IsUrdu()

	systemPrompt := generalSystemPromptEnglish
	if isUrdu {
		systemPrompt = generalSystemPromptUrdu
	}

	var (
		content     string
		suggestions []string
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		content = e.generalResponse(ctx, systemPrompt, s.ConversationHistory, s.UserQuery, isUrdu)
	}()
	go func() {
		defer wg.Done()
		suggestions = e.suggestions.Generate(ctx, s.UserQuery, state.IntentGeneral, s.ConversationHistory, s.DetectedLanguage)
	}()
	wg.Wait()

	s.Response = &state.Response{
		Type:             state.ResponseGeneral,
		Content:          content,
		SuggestedActions: suggestions,
		IsUrdu:           isUrdu,
	}
	s.Suggestions = suggestions
	s.Visit(state.NodeGeneralAgent)
}

func (e *Engine) generalResponse(ctx context.Context, systemPrompt string, history []string, query string, isUrdu bool) string {
	messages := []llm.Message{{Role: "system", Content: systemPrompt}}
	for _, entry := range state.LastN(history, 4) {
		messages = append(messages, llm.Message{Role: "user", Content: entry})
	}
	messages = append(messages, llm.Message{Role: "user", Content: query})

	content, err := e.llm.Chat(ctx, messages)
	if err != nil {
		e.logger.Warn("general_agent", "response generation failed, using fallback", map[string]interface{}{"error": err.Error()})
		if isUrdu {
			return "Hi! Main aapki kaisay madad kar sakti hoon."
		}
		return "Hello! How can I help you?"
	}
	return content
}
