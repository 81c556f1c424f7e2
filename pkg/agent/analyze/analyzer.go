package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// Analysis is the joint classification of one user query.
type Analysis struct {
	Intent     state.Intent
	Confidence float64
	Language   state.Language
	IsConfused bool
	StepNumber int // 1-based, 0 when the query names no step
}

// SafeDefault is what the analyzer reports when the generative call fails
// or returns garbage. The turn continues on the fallback route.
func SafeDefault() *Analysis {
	return &Analysis{
		Intent:     state.IntentFallback,
		Confidence: 0.3,
		Language:   state.LanguageEnglish,
		IsConfused: false,
		StepNumber: 0,
	}
}

// RequestAnalyzer classifies intent and language in a single generative
// pass to keep per-turn latency down.
type RequestAnalyzer struct {
	llm llm.Provider
}

func NewRequestAnalyzer(provider llm.Provider) *RequestAnalyzer {
	return &RequestAnalyzer{llm: provider}
}

type rawAnalysis struct {
	Intent     string   `json:"intent"`
	Confidence *float64 `json:"confidence"`
	Language   string   `json:"language"`
	IsConfused bool     `json:"is_confused"`
	StepNumber *int     `json:"step_number"`
}

// Analyze never returns an error: classification failure degrades to
// SafeDefault so routing can continue.
func (a *RequestAnalyzer) Analyze(ctx context.Context, userQuery string, history []string) *Analysis {
	userPrompt := buildUserPrompt(userQuery, history)

	raw, err := a.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: buildSystemPrompt()},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(0.0))
	if err != nil {
		return SafeDefault()
	}

	parsed, err := parseAnalysis(raw)
	if err != nil {
		return SafeDefault()
	}
	return parsed
}

func buildSystemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString("You are the 'Request Analyzer' for MIRA, a Management Portal assistant.\n")
	prompt.WriteString("Analyze the user query to determine the primary intent.\n\n")

	prompt.WriteString("<intents>\n")
	prompt.WriteString("- \"tutorial\": Use this for ANY request asking for steps, instructions, \"how to\", \"Add...\", \"Create...\", \"View details...\", or questions about specific system entities (Wallet, Bank, Region, Distributor, Area, etc.).\n")
	prompt.WriteString("- \"capabilities\": ONLY use this when the user asks about MIRA herself (e.g., \"What can you do?\", \"Who are you?\", \"System features\").\n")
	prompt.WriteString("- \"general\": Greetings, chit-chat, or simple conversational emotional markers.\n")
	prompt.WriteString("- \"clarify\": User explicitly asks for an explanation of a specific step or says \"Help me with step X\".\n")
	prompt.WriteString("- \"history_recall\": User asks about previous questions or answers (e.g., \"What was my last question?\", \"What did you say about Bank?\").\n")
	prompt.WriteString("- \"summarization\": User asks for a summary of the whole chat (e.g., \"Summarize our chat\").\n")
	prompt.WriteString("- \"fallback\": Unclear or completely out-of-scope queries.\n")
	prompt.WriteString("</intents>\n\n")

	prompt.WriteString("CRITICAL: If a query mentions a specific system action (Add, View, Create, Setup) or a system entity (Wallet, Bank, etc.), it MUST be \"tutorial\".\n\n")

	prompt.WriteString("<language_rules>\n")
	prompt.WriteString("- If user uses Roman Urdu words (e.g., 'kaisay', 'kahan', 'madad'), classify as \"Roman-Urdu\".\n")
	prompt.WriteString("- If user uses Urdu script, classify as \"Urdu\".\n")
	prompt.WriteString("- If user uses any OTHER language (e.g., Spanish, French), classify as \"English\" (so we can politely refuse in English).\n")
	prompt.WriteString("- Default to \"English\".\n")
	prompt.WriteString("</language_rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Return JSON only:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"tutorial\",\n")
	prompt.WriteString("  \"confidence\": 0.9,\n")
	prompt.WriteString("  \"language\": \"English\",\n")
	prompt.WriteString("  \"is_confused\": false,\n")
	prompt.WriteString("  \"step_number\": null\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildUserPrompt(userQuery string, history []string) string {
	var prompt strings.Builder

	recent := state.LastN(history, 3)
	if len(recent) > 0 {
		prompt.WriteString("Recent conversation:\n")
		prompt.WriteString(strings.Join(recent, "\n"))
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("User Query: ")
	prompt.WriteString(userQuery)

	return prompt.String()
}

func parseAnalysis(response string) (*Analysis, error) {
	jsonContent := extractJSON(response)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	result := &Analysis{
		IsConfused: raw.IsConfused,
	}

	// Coerce unknown intents to fallback.
	intent := state.Intent(strings.ToLower(strings.TrimSpace(raw.Intent)))
	if !state.ValidIntents[intent] {
		intent = state.IntentFallback
	}
	result.Intent = intent

	// Clamp confidence into [0,1]; absence defaults to 0.5.
	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	result.Confidence = confidence

	result.Language = NormalizeLanguage(raw.Language)

	if raw.StepNumber != nil && *raw.StepNumber > 0 {
		result.StepNumber = *raw.StepNumber
	}

	return result, nil
}

// NormalizeLanguage collapses every Urdu-adjacent label the model may emit
// onto Roman-Urdu and everything else onto English.
func NormalizeLanguage(raw string) state.Language {
	lowered := strings.ToLower(raw)
	for _, variant := range []string{"hindi", "urdu", "roman", "hinglish"} {
		if strings.Contains(lowered, variant) {
			return state.LanguageRomanUrdu
		}
	}
	return state.LanguageEnglish
}

// extractJSON isolates the JSON object from a chatty model response.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}
