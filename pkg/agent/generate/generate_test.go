package generate

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"portal-assistant-be/pkg/agent/knowledge"
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

type recordingProvider struct {
	response     string
	err          error
	lastMessages []llm.Message
}

func (p *recordingProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	p.lastMessages = messages
	return p.response, p.err
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.response, p.err
}

type fixedStore struct {
	docs []vectorstore.Document
}

func (s *fixedStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	return nil, nil
}

func (s *fixedStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	return s.docs, nil
}

func (s *fixedStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	return nil, nil
}

func testIndex(t *testing.T, titles ...string) *knowledge.Index {
	t.Helper()
	docs := make([]vectorstore.Document, 0, len(titles))
	for _, title := range titles {
		docs = append(docs, vectorstore.Document{Title: title, Language: "english"})
	}
	index := knowledge.NewIndex(&fixedStore{docs: docs})
	if err := index.Refresh(context.Background()); err != nil {
		t.Fatalf("index refresh: %v", err)
	}
	return index
}

func TestSuggestionsParsedFromNoisyOutput(t *testing.T) {
	provider := &recordingProvider{response: "Sure, here you go:\n[\"View details of Region\", \"Edit a Region\"]\nHope that helps!"}
	gen := NewSuggestionGenerator(provider, testIndex(t, "Add New Region"), noopLogger{}, 4, 15)

	got := gen.Generate(context.Background(), "add region", state.IntentTutorial, nil, state.LanguageEnglish)
	want := []string{"View details of Region", "Edit a Region"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestSuggestionsTruncatedToLimit(t *testing.T) {
	provider := &recordingProvider{response: `["a", "b", "c", "d", "e", "f"]`}
	gen := NewSuggestionGenerator(provider, testIndex(t, "Add New Region"), noopLogger{}, 4, 15)

	got := gen.Generate(context.Background(), "add region", state.IntentTutorial, nil, state.LanguageEnglish)
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

func TestSuggestionsDefaultTrios(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		language state.Language
		want     []string
	}{
		{
			name:     "provider error english",
			err:      errors.New("model down"),
			language: state.LanguageEnglish,
			want:     []string{"How to add a new region?", "Steps to create a distributor", "What can you help me with?"},
		},
		{
			name:     "garbage output roman urdu",
			response: "I cannot help with that",
			language: state.LanguageRomanUrdu,
			want:     []string{"Naya region kaisay add karain?", "Distributor bananay ke steps kya hain?", "Aap mairi kaisay madad kar saktay hain?"},
		},
		{
			name:     "empty array",
			response: "[]",
			language: state.LanguageEnglish,
			want:     []string{"How to add a new region?", "Steps to create a distributor", "What can you help me with?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &recordingProvider{response: tt.response, err: tt.err}
			gen := NewSuggestionGenerator(provider, testIndex(t, "Add New Region"), noopLogger{}, 4, 15)

			got := gen.Generate(context.Background(), "query", state.IntentGeneral, nil, tt.language)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("suggestions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestionsFallbackIntentDiscardsQuery(t *testing.T) {
	provider := &recordingProvider{response: `["How to add a new region?"]`}
	gen := NewSuggestionGenerator(provider, testIndex(t, "Add New Region"), noopLogger{}, 4, 15)

	gen.Generate(context.Background(), "buy me a pizza", state.IntentFallback, nil, state.LanguageEnglish)

	if len(provider.lastMessages) == 0 {
		t.Fatal("provider not invoked")
	}
	prompt := provider.lastMessages[0].Content
	if strings.Contains(prompt, "buy me a pizza") {
		t.Error("fallback prompt must not carry the out-of-scope query")
	}
	if !strings.Contains(prompt, "Ignore the user query as it was out of scope") {
		t.Error("fallback prompt missing the discard instruction")
	}
}

func TestSuggestionsPromptGroundedInTopics(t *testing.T) {
	provider := &recordingProvider{response: `["x"]`}
	gen := NewSuggestionGenerator(provider, testIndex(t, "Add New Region", "Create Distributor"), noopLogger{}, 4, 15)

	gen.Generate(context.Background(), "help", state.IntentGeneral, []string{"User: hi", "Assistant: hello"}, state.LanguageEnglish)

	prompt := provider.lastMessages[0].Content
	if !strings.Contains(prompt, "Add New Region, Create Distributor") {
		t.Errorf("prompt missing topic grounding:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User: hi") {
		t.Error("prompt missing recent history")
	}
}

func TestGreetingFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		language state.Language
		want     string
	}{
		{name: "model output wins", response: "Here are the steps to find the agents page:", language: state.LanguageEnglish, want: "Here are the steps to find the agents page:"},
		{name: "error english", err: errors.New("model down"), language: state.LanguageEnglish, want: "Here are the steps:"},
		{name: "error roman urdu", err: errors.New("model down"), language: state.LanguageRomanUrdu, want: "Yeh rahe steps:"},
		{name: "blank output english", response: "   ", language: state.LanguageEnglish, want: "Here are the steps:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &recordingProvider{response: tt.response, err: tt.err}
			gen := NewGreetingGenerator(provider, noopLogger{})

			got := gen.Generate(context.Background(), "where is the agents page?", "Where is Agent page located", tt.language)
			if got != tt.want {
				t.Errorf("greeting = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClarifyReturnsOriginalOnFailure(t *testing.T) {
	provider := &recordingProvider{err: errors.New("model down")}
	clarifier := NewStepClarifier(provider, noopLogger{})

	got := clarifier.Clarify(context.Background(), "Click the Save button", 2, state.LanguageEnglish)
	if got != "Click the Save button" {
		t.Errorf("clarified = %q, want original text", got)
	}
}

func TestClarifyUsesLanguageSpecificPrompt(t *testing.T) {
	provider := &recordingProvider{response: "Save button par click karain"}
	clarifier := NewStepClarifier(provider, noopLogger{})

	got := clarifier.Clarify(context.Background(), "Click the Save button", 2, state.LanguageRomanUrdu)
	if got != "Save button par click karain" {
		t.Errorf("clarified = %q", got)
	}
	if provider.lastMessages[0].Content != "Explain this step in clearer Roman-Urdu." {
		t.Errorf("system prompt = %q", provider.lastMessages[0].Content)
	}
	if provider.lastMessages[1].Content != "Step 2: Click the Save button" {
		t.Errorf("user prompt = %q", provider.lastMessages[1].Content)
	}
}
