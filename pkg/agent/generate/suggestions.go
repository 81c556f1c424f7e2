package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/pkg/agent/knowledge"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// SuggestionGenerator produces follow-up actions grounded in the indexed
// tutorial topics. It never returns an error: when the model output cannot
// be parsed it falls back to a canned trio in the detected language.
type SuggestionGenerator struct {
	llm            llm.Provider
	index          *knowledge.Index
	logger         logger.ILogger
	maxSuggestions int
	maxTopics      int
}

func NewSuggestionGenerator(provider llm.Provider, index *knowledge.Index, log logger.ILogger, maxSuggestions, maxTopics int) *SuggestionGenerator {
	if maxSuggestions <= 0 {
		maxSuggestions = 4
	}
	if maxTopics <= 0 {
		maxTopics = 15
	}
	return &SuggestionGenerator{
		llm:            provider,
		index:          index,
		logger:         log,
		maxSuggestions: maxSuggestions,
		maxTopics:      maxTopics,
	}
}

func (g *SuggestionGenerator) Generate(ctx context.Context, userQuery string, intent state.Intent, history []string, language state.Language) []string {
	prompt := g.buildPrompt(userQuery, intent, history, language)

	content, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: "Generate suggestions"},
	}, llm.WithTemperature(0.3))
	if err != nil {
		g.logger.Warn("suggestions", "generation failed, using defaults", map[string]interface{}{"error": err.Error()})
		return DefaultSuggestions(language)
	}

	suggestions, err := parseSuggestions(content)
	if err != nil {
		g.logger.Warn("suggestions", "unparseable output, using defaults", map[string]interface{}{"error": err.Error()})
		return DefaultSuggestions(language)
	}

	if len(suggestions) > g.maxSuggestions {
		suggestions = suggestions[:g.maxSuggestions]
	}
	return suggestions
}

func (g *SuggestionGenerator) buildPrompt(userQuery string, intent state.Intent, history []string, language state.Language) string {
	langInstruction := fmt.Sprintf("Strictly generate suggestions in %s.", language)
	if language.IsUrdu() {
		langInstruction = "Strictly generate suggestions in Roman Urdu (Urdu written in English alphabets)."
	}

	topics := g.index.Topics(language)
	if len(topics) > g.maxTopics {
		topics = topics[:g.maxTopics]
	}

	queryContext := fmt.Sprintf("User Query: %s", userQuery)
	if intent == state.IntentFallback {
		queryContext = "Ignore the user query as it was out of scope. Suggest 4 diverse, valid actions based on the available topics."
	}

	historyContext := "No recent history"
	if recent := state.LastN(history, 4); len(recent) > 0 {
		historyContext = strings.Join(recent, "\n")
	}

	var b strings.Builder
	b.WriteString("Generate 4 relevant follow-up questions for MIRA, a Management Portal assistant.\n")
	b.WriteString(langInstruction)
	b.WriteString("\n\nCRITICAL: Only suggest actions that MIRA can actually do.\n")
	b.WriteString(fmt.Sprintf("Available topics MIRA can help with: [%s]\n\n", strings.Join(topics, ", ")))
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Every suggestion MUST directly relate to the available topics listed above.\n")
	b.WriteString("2. If Intent is 'fallback', DO NOT hallucinate based on the user's invalid query. Suggest broad, valid system actions instead.\n")
	b.WriteString("3. If the user query is about a specific valid topic (e.g., 'Region'), suggest sub-tasks like 'View details of Region'.\n")
	b.WriteString("4. Do NOT hallucinate features MIRA doesn't have.\n\n")
	b.WriteString(queryContext)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Intent: %s\n", intent))
	b.WriteString(fmt.Sprintf("Recent History: %s\n\n", historyContext))
	b.WriteString(`Return ONLY a JSON array of strings: ["Suggestion 1", "Suggestion 2", ...]`)
	return b.String()
}

// parseSuggestions extracts the first JSON array literal from the model
// output, tolerating conversational filler around it.
func parseSuggestions(content string) ([]string, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in output")
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(content[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("invalid suggestion array: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("empty suggestions list")
	}
	return suggestions, nil
}

func DefaultSuggestions(language state.Language) []string {
	if language.IsUrdu() {
		return []string{
			"Naya region kaisay add karain?",
			"Distributor bananay ke steps kya hain?",
			"Aap mairi kaisay madad kar saktay hain?",
		}
	}
	return []string{
		"How to add a new region?",
		"Steps to create a distributor",
		"What can you help me with?",
	}
}
