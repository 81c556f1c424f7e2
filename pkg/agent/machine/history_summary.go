package machine

import (
	"context"
	"fmt"
	"strings"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// historySummaryAgent serves both summarization and history recall.
// Summaries read the full history; recall looks at the last ten entries.
func (e *Engine) historySummaryAgent(ctx context.Context, s *state.State) {
	isUrdu := s.DetectedLanguage.IsUrdu()

	if len(s.ConversationHistory) == 0 {
		content := "We haven't had much of a conversation yet!"
		if isUrdu {
			content = "Hamari abhi koi guftagu nahi hui."
		}
		s.Response = &state.Response{
			Type:    state.ResponseGeneral,
			Content: content,
		}
		return
	}

	var content string
	switch s.Intent {
	case state.IntentSummarization:
		content = e.summarizeHistory(ctx, s.ConversationHistory, isUrdu)
	default:
		content = e.recallHistory(ctx, s.UserQuery, s.ConversationHistory, isUrdu)
	}

	s.Response = &state.Response{
		Type:    state.ResponseGeneral,
		Content: content,
		IsUrdu:  isUrdu,
	}
	s.Visit(state.NodeHistorySummaryAgent)
}

func (e *Engine) summarizeHistory(ctx context.Context, history []string, isUrdu bool) string {
	language := "English"
	if isUrdu {
		language = "Roman-Urdu"
	}

	var b strings.Builder
	b.WriteString("Summarize the following chat conversation between a user and MIRA (Management Portal Assistant).\n")
	b.WriteString("Provide a high-level summary of what was discussed, the topics covered, and any pending questions.\n")
	b.WriteString(fmt.Sprintf("Language: %s\n", language))
	b.WriteString("Format: Bullet points.\n")

	content, err := e.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: fmt.Sprintf("Conversation History:\n%s", strings.Join(history, "\n"))},
	})
	if err != nil {
		e.logger.Warn("history_summary_agent", "summarization failed", map[string]interface{}{"error": err.Error()})
		return "Summary generation failed."
	}
	return content
}

func (e *Engine) recallHistory(ctx context.Context, userQuery string, history []string, isUrdu bool) string {
	language := "English"
	if isUrdu {
		language = "Roman-Urdu"
	}

	var b strings.Builder
	b.WriteString("The user is asking a question about the previous conversation.\n")
	b.WriteString("Based on the provided history, answer the user's question accurately.\n")
	b.WriteString("If they ask for their 'last question', identify it from the history.\n")
	b.WriteString("If they ask 'what did you say about X', find the relevant assistant response.\n")
	b.WriteString(fmt.Sprintf("Language: %s\n", language))
	b.WriteString("History:\n")
	b.WriteString(strings.Join(state.LastN(history, 10), "\n"))

	content, err := e.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: b.String()},
		{Role: "user", Content: fmt.Sprintf("User's Recall Question: %s", userQuery)},
	})
	if err != nil {
		e.logger.Warn("history_summary_agent", "recall failed", map[string]interface{}{"error": err.Error()})
		return "I'm sorry, I couldn't recall that correctly."
	}
	return content
}
