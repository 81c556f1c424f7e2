package analyze

import (
	"context"
	"errors"
	"testing"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestAnalyzeParsesWellFormedOutput(t *testing.T) {
	provider := &stubProvider{
		response: `{"intent": "tutorial", "confidence": 0.9, "language": "English", "is_confused": false, "step_number": null}`,
	}
	analyzer := NewRequestAnalyzer(provider)

	got := analyzer.Analyze(context.Background(), "How to add a new region?", nil)

	if got.Intent != state.IntentTutorial {
		t.Errorf("intent = %q, want tutorial", got.Intent)
	}
	if got.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", got.Confidence)
	}
	if got.Language != state.LanguageEnglish {
		t.Errorf("language = %q, want English", got.Language)
	}
	if got.StepNumber != 0 {
		t.Errorf("step number = %d, want 0", got.StepNumber)
	}
}

func TestAnalyzeToleratesConversationalFiller(t *testing.T) {
	provider := &stubProvider{
		response: "Sure, here is the analysis:\n{\"intent\": \"clarify\", \"confidence\": 0.8, \"language\": \"Roman Urdu\", \"step_number\": 3}\nHope that helps!",
	}
	analyzer := NewRequestAnalyzer(provider)

	got := analyzer.Analyze(context.Background(), "step 3 samajh nahi aya", nil)

	if got.Intent != state.IntentClarify {
		t.Errorf("intent = %q, want clarify", got.Intent)
	}
	if got.Language != state.LanguageRomanUrdu {
		t.Errorf("language = %q, want Roman-Urdu", got.Language)
	}
	if got.StepNumber != 3 {
		t.Errorf("step number = %d, want 3", got.StepNumber)
	}
}

func TestAnalyzeNormalization(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantIntent     state.Intent
		wantConfidence float64
		wantLanguage   state.Language
	}{
		{
			name:           "unknown intent coerced to fallback",
			response:       `{"intent": "greeting", "confidence": 0.7, "language": "English"}`,
			wantIntent:     state.IntentFallback,
			wantConfidence: 0.7,
			wantLanguage:   state.LanguageEnglish,
		},
		{
			name:           "confidence above one clamped",
			response:       `{"intent": "general", "confidence": 1.4, "language": "English"}`,
			wantIntent:     state.IntentGeneral,
			wantConfidence: 1.0,
			wantLanguage:   state.LanguageEnglish,
		},
		{
			name:           "negative confidence clamped",
			response:       `{"intent": "general", "confidence": -0.2, "language": "English"}`,
			wantIntent:     state.IntentGeneral,
			wantConfidence: 0.0,
			wantLanguage:   state.LanguageEnglish,
		},
		{
			name:           "missing confidence defaults",
			response:       `{"intent": "general", "language": "English"}`,
			wantIntent:     state.IntentGeneral,
			wantConfidence: 0.5,
			wantLanguage:   state.LanguageEnglish,
		},
		{
			name:           "hinglish collapses to roman urdu",
			response:       `{"intent": "tutorial", "confidence": 0.9, "language": "Hinglish"}`,
			wantIntent:     state.IntentTutorial,
			wantConfidence: 0.9,
			wantLanguage:   state.LanguageRomanUrdu,
		},
		{
			name:           "urdu script collapses to roman urdu",
			response:       `{"intent": "tutorial", "confidence": 0.9, "language": "Urdu"}`,
			wantIntent:     state.IntentTutorial,
			wantConfidence: 0.9,
			wantLanguage:   state.LanguageRomanUrdu,
		},
		{
			name:           "spanish collapses to english",
			response:       `{"intent": "general", "confidence": 0.9, "language": "Spanish"}`,
			wantIntent:     state.IntentGeneral,
			wantConfidence: 0.9,
			wantLanguage:   state.LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewRequestAnalyzer(&stubProvider{response: tt.response})
			got := analyzer.Analyze(context.Background(), "query", nil)

			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.wantIntent)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Language != tt.wantLanguage {
				t.Errorf("language = %q, want %q", got.Language, tt.wantLanguage)
			}
		})
	}
}

func TestAnalyzeFailureReturnsSafeDefault(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{"provider error", &stubProvider{err: errors.New("connection refused")}},
		{"unparsable output", &stubProvider{response: "I cannot classify that."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewRequestAnalyzer(tt.provider)
			got := analyzer.Analyze(context.Background(), "anything", nil)

			want := SafeDefault()
			if got.Intent != want.Intent || got.Confidence != want.Confidence ||
				got.Language != want.Language || got.IsConfused || got.StepNumber != 0 {
				t.Errorf("got %+v, want safe default %+v", got, want)
			}
		})
	}
}
