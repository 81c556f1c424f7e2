package machine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"portal-assistant-be/pkg/agent/analyze"
	"portal-assistant-be/pkg/agent/generate"
	"portal-assistant-be/pkg/agent/knowledge"
	"portal-assistant-be/pkg/agent/retrieval"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
	"portal-assistant-be/pkg/vectorstore"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// scriptedProvider routes each call to a canned response based on the
// system prompt, so one provider can stand in for every generative role.
type scriptedProvider struct {
	analysis       string
	analysisErr    error
	panicOnAnalyze bool

	suggestions    string
	suggestionsErr error

	greeting string

	general    string
	generalErr error

	summary   string
	recall    string
	clarified string

	selection string
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	system := messages[0].Content
	switch {
	case strings.Contains(system, "Request Analyzer"):
		if p.panicOnAnalyze {
			panic("analyzer exploded")
		}
		return p.analysis, p.analysisErr
	case strings.Contains(system, "follow-up questions"):
		return p.suggestions, p.suggestionsErr
	case strings.Contains(system, "ONE-LINE, natural greeting"):
		return p.greeting, nil
	case strings.Contains(system, "Summarize the following chat conversation"):
		return p.summary, nil
	case strings.Contains(system, "asking a question about the previous conversation"):
		return p.recall, nil
	case strings.Contains(system, "Explain this step"):
		return p.clarified, nil
	case strings.Contains(system, "You are MIRA"):
		return p.general, p.generalErr
	}
	return "", fmt.Errorf("unexpected system prompt: %s", system)
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.selection, nil
}

type stubStore struct {
	results []vectorstore.ScoredDocument
	err     error
}

func (s *stubStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	return s.results, s.err
}

func (s *stubStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	docs := make([]vectorstore.Document, 0, len(s.results))
	for _, r := range s.results {
		docs = append(docs, r.Document)
	}
	return docs, nil
}

func (s *stubStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	return nil, nil
}

func analysisJSON(intent string, confidence float64, language string, stepNumber int) string {
	return fmt.Sprintf(`{"intent": %q, "confidence": %.2f, "language": %q, "is_confused": false, "step_number": %d}`,
		intent, confidence, language, stepNumber)
}

func newTestEngine(t *testing.T, provider llm.Provider, store vectorstore.Store) *Engine {
	t.Helper()
	log := noopLogger{}
	index := knowledge.NewIndex(store)
	return NewEngine(Params{
		Analyzer:            analyze.NewRequestAnalyzer(provider),
		Resolver:            retrieval.NewResolver(store, provider, log, 0.15, 5),
		Suggestions:         generate.NewSuggestionGenerator(provider, index, log, 4, 15),
		Greetings:           generate.NewGreetingGenerator(provider, log),
		Clarifier:           generate.NewStepClarifier(provider, log),
		Index:               index,
		LLM:                 provider,
		Logger:              log,
		ConfidenceThreshold: 0.4,
	})
}

func TestProcessLowConfidenceRoutesToFallback(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("tutorial", 0.2, "english", 0),
		suggestions: `["How to add a new region?"]`,
	}
	engine := newTestEngine(t, provider, &stubStore{})

	result := engine.Process(context.Background(), "add region maybe?", nil, nil)

	if result.Response.Type != state.ResponseFallback {
		t.Errorf("type = %q, want fallback", result.Response.Type)
	}
	if result.Response.Content != "How can I help you today?" {
		t.Errorf("content = %q", result.Response.Content)
	}
	path := strings.Join(result.ProcessingPath, ",")
	if !strings.Contains(path, "fallback_agent") || strings.Contains(path, "tutorial_agent") {
		t.Errorf("path = %v", result.ProcessingPath)
	}
	if valid, _ := result.ValidationResults["response_valid"].(bool); !valid {
		t.Error("response_valid must be true")
	}
}

func TestProcessTutorialFastPath(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("tutorial", 0.92, "english", 0),
		suggestions: `["View details of Region"]`,
		greeting:    "Here are the steps to add a region:",
	}
	store := &stubStore{results: []vectorstore.ScoredDocument{
		{
			Document: vectorstore.Document{
				Title:    "Add New Region",
				Language: "english",
				Steps: []vectorstore.Step{
					{StepNumber: 1, Description: "Open the 'Regions' page", ImagePath: "images/r1.png"},
					{StepNumber: 2, Description: "Click Add"},
				},
			},
			Distance: 0.04,
		},
	}}
	engine := newTestEngine(t, provider, store)

	result := engine.Process(context.Background(), "how to add a region?", []string{"User: hi", "Assistant: hello"}, nil)

	resp := result.Response
	if resp.Type != state.ResponseTutorial {
		t.Fatalf("type = %q, want tutorial", resp.Type)
	}
	if resp.Content != "Here are the steps to add a region:" {
		t.Errorf("intro = %q", resp.Content)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(resp.Steps))
	}
	if resp.Steps[0].Text != "Open the **Regions** page" {
		t.Errorf("step text = %q", resp.Steps[0].Text)
	}
	if resp.Steps[0].Image != "/images/r1.png" {
		t.Errorf("image = %q", resp.Steps[0].Image)
	}
	if resp.Summary != "I hope these 2 steps help you achieve your goal." {
		t.Errorf("summary = %q", resp.Summary)
	}
	if resp.ProTip != "Follow each step carefully." {
		t.Errorf("pro tip = %q", resp.ProTip)
	}
	if resp.CompletionMessage != "Thank you!" {
		t.Errorf("completion = %q", resp.CompletionMessage)
	}
	if result.DetectedIntent != state.IntentTutorial {
		t.Errorf("intent = %q", result.DetectedIntent)
	}

	history := result.ConversationHistory
	if len(history) != 4 {
		t.Fatalf("history = %d entries, want 4", len(history))
	}
	if history[2] != "User: how to add a region?" {
		t.Errorf("history[2] = %q", history[2])
	}
	if !strings.HasPrefix(history[3], "Assistant: ") {
		t.Errorf("history[3] = %q", history[3])
	}
}

func TestProcessTutorialUrduCannedTexts(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("tutorial", 0.9, "roman-urdu", 0),
		suggestions: `["Naya region kaisay add karain?"]`,
		greeting:    "Yeh rahe steps:",
	}
	store := &stubStore{results: []vectorstore.ScoredDocument{
		{
			Document: vectorstore.Document{
				Title: "Add New Region",
				Steps: []vectorstore.Step{{Description: "Regions page kholain"}},
			},
			Distance: 0.05,
		},
	}}
	engine := newTestEngine(t, provider, store)

	resp := engine.Process(context.Background(), "region kaisay add karain?", nil, nil).Response
	if !resp.IsUrdu {
		t.Error("is_urdu must be set")
	}
	if resp.Summary != "Main pur-umeed hoon ke in 1 steps se aapki madad hui hogi." {
		t.Errorf("summary = %q", resp.Summary)
	}
	if resp.ProTip != "Steps ko carefully follow karain." {
		t.Errorf("pro tip = %q", resp.ProTip)
	}
	if resp.CompletionMessage != "Shukriya!" {
		t.Errorf("completion = %q", resp.CompletionMessage)
	}
}

func TestProcessNoRelevantContent(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("tutorial", 0.85, "english", 0),
		suggestions: `["How to add a new region?"]`,
		selection:   "NONE",
	}
	store := &stubStore{results: []vectorstore.ScoredDocument{
		{Document: vectorstore.Document{Title: "Add New Region"}, Distance: 0.7},
	}}
	engine := newTestEngine(t, provider, store)

	resp := engine.Process(context.Background(), "order me a pizza", nil, nil).Response
	if resp.Type != state.ResponseNoRelevantContent {
		t.Fatalf("type = %q, want no_relevant_content", resp.Type)
	}
	if !strings.Contains(resp.Content, "is not related to this system") {
		t.Errorf("content = %q", resp.Content)
	}
	if !resp.Valid() {
		t.Error("response must stay valid")
	}
}

func TestProcessTutorialEmptyIndex(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("tutorial", 0.9, "english", 0),
		suggestions: `["How to add a new region?"]`,
	}
	engine := newTestEngine(t, provider, &stubStore{})

	resp := engine.Process(context.Background(), "How to add a new region?", nil, nil).Response
	if resp.Type != state.ResponseTutorialFallback {
		t.Fatalf("type = %q, want tutorial_fallback", resp.Type)
	}
	if resp.Content != "No steps found for 'How to add a new region?'." {
		t.Errorf("content = %q", resp.Content)
	}
	if !resp.Valid() {
		t.Error("response must stay valid")
	}
}

func TestProcessStepClarification(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("clarify", 0.9, "english", 2),
		suggestions: `["How to add a new region?"]`,
		clarified:   "Click the Add button at the top right of the Regions page.",
	}
	engine := newTestEngine(t, provider, &stubStore{})

	lastTutorial := []state.Step{
		{StepNumber: 1, Text: "Open the Regions page"},
		{StepNumber: 2, Text: "Click Add"},
	}
	resp := engine.Process(context.Background(), "explain step 2", nil, lastTutorial).Response

	if resp.Type != state.ResponseTutorialClarify {
		t.Fatalf("type = %q, want tutorial_clarify", resp.Type)
	}
	if resp.Content != "Step 2 clarification:" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.ClarifiedStep == nil {
		t.Fatal("clarified_step missing")
	}
	if resp.ClarifiedStep.Original != "Click Add" {
		t.Errorf("original = %q", resp.ClarifiedStep.Original)
	}
	if resp.ClarifiedStep.Clarified != "Click the Add button at the top right of the Regions page." {
		t.Errorf("clarified = %q", resp.ClarifiedStep.Clarified)
	}
}

func TestProcessStepClarificationOutOfRange(t *testing.T) {
	tests := []struct {
		name         string
		stepNumber   int
		lastTutorial []state.Step
	}{
		{name: "no prior tutorial", stepNumber: 2, lastTutorial: nil},
		{name: "step beyond range", stepNumber: 9, lastTutorial: []state.Step{{StepNumber: 1, Text: "Open the page"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{
				analysis:    analysisJSON("clarify", 0.9, "english", tt.stepNumber),
				suggestions: `["How to add a new region?"]`,
			}
			engine := newTestEngine(t, provider, &stubStore{})

			resp := engine.Process(context.Background(), "explain that step", nil, tt.lastTutorial).Response
			if resp.Type != state.ResponseTutorialClarifyError {
				t.Fatalf("type = %q, want tutorial_clarify_error", resp.Type)
			}
			if resp.Content != "Please ask for a tutorial first." {
				t.Errorf("content = %q", resp.Content)
			}
		})
	}
}

func TestProcessClarifyWithoutStepAsksWhich(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("clarify", 0.9, "english", 0),
		suggestions: `["How to add a new region?"]`,
	}
	engine := newTestEngine(t, provider, &stubStore{})

	resp := engine.Process(context.Background(), "explain that again", nil, nil).Response
	if resp.Type != state.ResponseClarifyQuestion {
		t.Fatalf("type = %q, want clarify_question", resp.Type)
	}
	if resp.Content != "Which step would you like me to explain?" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestProcessGeneralAgentDegradesToCanned(t *testing.T) {
	provider := &scriptedProvider{
		analysis:       analysisJSON("general", 0.9, "english", 0),
		generalErr:     errors.New("model down"),
		suggestionsErr: errors.New("model down"),
	}
	engine := newTestEngine(t, provider, &stubStore{})

	result := engine.Process(context.Background(), "hello!", nil, nil)
	resp := result.Response

	if resp.Type != state.ResponseGeneral {
		t.Fatalf("type = %q, want general", resp.Type)
	}
	if resp.Content != "Hello! How can I help you?" {
		t.Errorf("content = %q", resp.Content)
	}
	want := generate.DefaultSuggestions(state.LanguageEnglish)
	if len(resp.SuggestedActions) != len(want) || resp.SuggestedActions[0] != want[0] {
		t.Errorf("suggestions = %v, want defaults", resp.SuggestedActions)
	}
	if valid, _ := result.ValidationResults["response_valid"].(bool); !valid {
		t.Error("canned response must still validate")
	}
}

func TestProcessCapabilitiesCard(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("capabilities", 0.95, "english", 0),
		suggestions: `["How to add a new region?"]`,
	}
	engine := newTestEngine(t, provider, &stubStore{})

	resp := engine.Process(context.Background(), "what can you do?", nil, nil).Response
	if resp.Type != state.ResponseCapabilities {
		t.Fatalf("type = %q, want capabilities", resp.Type)
	}
	if resp.Title != "I'm MIRA, Your Portal Guide" {
		t.Errorf("title = %q", resp.Title)
	}
	if len(resp.Features) != 5 {
		t.Errorf("features = %d, want 5", len(resp.Features))
	}
	if resp.FooterCTA != "What would you like to learn today?" {
		t.Errorf("footer = %q", resp.FooterCTA)
	}
}

func TestProcessHistorySummaryEmptyHistory(t *testing.T) {
	provider := &scriptedProvider{
		analysis: analysisJSON("summarization", 0.9, "english", 0),
	}
	engine := newTestEngine(t, provider, &stubStore{})

	resp := engine.Process(context.Background(), "summarize our chat", nil, nil).Response
	if resp.Content != "We haven't had much of a conversation yet!" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestProcessHistorySummaryAndRecall(t *testing.T) {
	history := []string{"User: how to add a region?", "Assistant: Here are the steps:"}

	t.Run("summarization", func(t *testing.T) {
		provider := &scriptedProvider{
			analysis: analysisJSON("summarization", 0.9, "english", 0),
			summary:  "- You asked about adding a region.",
		}
		engine := newTestEngine(t, provider, &stubStore{})

		resp := engine.Process(context.Background(), "summarize our chat", history, nil).Response
		if resp.Content != "- You asked about adding a region." {
			t.Errorf("content = %q", resp.Content)
		}
	})

	t.Run("recall", func(t *testing.T) {
		provider := &scriptedProvider{
			analysis: analysisJSON("history_recall", 0.9, "english", 0),
			recall:   "Your last question was about adding a region.",
		}
		engine := newTestEngine(t, provider, &stubStore{})

		resp := engine.Process(context.Background(), "what was my last question?", history, nil).Response
		if resp.Content != "Your last question was about adding a region." {
			t.Errorf("content = %q", resp.Content)
		}
	})
}

func TestProcessPanicDegradesToErrorResponse(t *testing.T) {
	provider := &scriptedProvider{panicOnAnalyze: true}
	engine := newTestEngine(t, provider, &stubStore{})

	history := []string{"User: hi"}
	result := engine.Process(context.Background(), "hello", history, nil)

	if result.Response.Type != state.ResponseError {
		t.Fatalf("type = %q, want error", result.Response.Type)
	}
	if !strings.HasPrefix(result.Response.Content, "I encountered an error: ") {
		t.Errorf("content = %q", result.Response.Content)
	}
	want := []string{"How to add a new region?", "What can you help me with?"}
	if len(result.Response.SuggestedActions) != 2 || result.Response.SuggestedActions[0] != want[0] {
		t.Errorf("suggestions = %v", result.Response.SuggestedActions)
	}
	if len(result.ConversationHistory) != 1 {
		t.Errorf("history must be untouched on failure, got %v", result.ConversationHistory)
	}
}

func TestProcessUnknownIntentFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		analysis:    analysisJSON("weather_forecast", 0.95, "english", 0),
		suggestions: `["How to add a new region?"]`,
	}
	engine := newTestEngine(t, provider, &stubStore{})

	result := engine.Process(context.Background(), "will it rain?", nil, nil)
	if result.Response.Type != state.ResponseFallback {
		t.Errorf("type = %q, want fallback", result.Response.Type)
	}
	if result.DetectedIntent != state.IntentFallback {
		t.Errorf("intent = %q, want fallback", result.DetectedIntent)
	}
}
