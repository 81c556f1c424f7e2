package generate

import (
	"context"
	"fmt"
	"strings"

	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// GreetingGenerator writes the one-line introduction shown above tutorial
// steps, bridging the user's phrasing and the matched topic title.
type GreetingGenerator struct {
	llm    llm.Provider
	logger logger.ILogger
}

func NewGreetingGenerator(provider llm.Provider, log logger.ILogger) *GreetingGenerator {
	return &GreetingGenerator{llm: provider, logger: log}
}

func (g *GreetingGenerator) Generate(ctx context.Context, userQuery, sectionTitle string, language state.Language) string {
	prompt := buildGreetingPrompt(userQuery, sectionTitle, language)

	content, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: fmt.Sprintf("User's Question: %s", userQuery)},
	}, llm.WithTemperature(0.3))
	if err != nil {
		g.logger.Warn("greeting", "generation failed, using fallback", map[string]interface{}{"error": err.Error()})
		return DefaultGreeting(language)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultGreeting(language)
	}
	return content
}

func buildGreetingPrompt(userQuery, sectionTitle string, language state.Language) string {
	var b strings.Builder
	b.WriteString("You are 'MIRA', the portal assistant.\n")
	b.WriteString("Create a ONE-LINE, natural greeting to introduce a list of tutorial steps.\n")
	b.WriteString("The greeting should bridge the user's question and the topic, using the USER'S terminology where appropriate.\n\n")
	b.WriteString(fmt.Sprintf("User's Question: %s\n", userQuery))
	b.WriteString(fmt.Sprintf("Retrieved Topic: %s\n", sectionTitle))
	b.WriteString(fmt.Sprintf("Language: %s\n\n", language))
	b.WriteString("CRITICAL:\n")
	b.WriteString("- If Language is \"English\", the greeting MUST be in English.\n")
	b.WriteString("- If Language is \"Roman Urdu\", the greeting MUST be in Roman Urdu.\n")
	b.WriteString("- Do NOT output in Spanish, French, or any other language, even if the user input is in that language.\n\n")
	b.WriteString("Examples:\n")
	b.WriteString("Input: \"where is the agents page?\"\n")
	b.WriteString("Topic: \"Where is Agent page located\"\n")
	b.WriteString("Response: \"Here are the steps to find the agents page:\"\n\n")
	b.WriteString("Input: \"create new stuff\"\n")
	b.WriteString("Topic: \"Add New Item\"\n")
	b.WriteString("Response: \"Here are the steps to create new stuff:\"\n\n")
	b.WriteString("Input: \"bank kahan hai?\"\n")
	b.WriteString("Topic: \"Where is Bank page located\"\n")
	b.WriteString("Response: \"Bank page kahan hai, iske baray mein steps yeh hain:\"\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Keep it to a single line.\n")
	b.WriteString("- End with a colon (:).\n")
	b.WriteString("- Be polite and direct.\n")
	b.WriteString("- Mirror the user's keywords/terminology if safe to do so.\n")
	return b.String()
}

func DefaultGreeting(language state.Language) string {
	if language.IsUrdu() {
		return "Yeh rahe steps:"
	}
	return "Here are the steps:"
}
