package service

import (
	"testing"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/pkg/agent/machine"
	"portal-assistant-be/pkg/agent/state"

	"github.com/stretchr/testify/assert"
)

func TestBuildHistory(t *testing.T) {
	messages := []*entity.ChatMessage{
		{Role: "user", Content: "How to add a region?"},
		{Role: "assistant", Content: "Here are the steps:"},
		{Role: "system", Content: "internal marker"},
		{Role: "user", Content: "Thanks"},
	}

	history := buildHistory(messages)

	assert.Equal(t, []string{
		"User: How to add a region?",
		"Assistant: Here are the steps:",
		"User: Thanks",
	}, history)
}

func TestLastTutorialSteps(t *testing.T) {
	steps := []interface{}{
		map[string]interface{}{"step_number": float64(1), "text": "Click **Regions**.", "image": "/images/regions.png"},
		map[string]interface{}{"step_number": float64(2), "text": "Press **Save**."},
	}

	messages := []*entity.ChatMessage{
		{Role: "user", Content: "How to add a region?"},
		{Role: "assistant", Content: "Here are the steps:", Metadata: map[string]interface{}{"steps": steps}},
		{Role: "assistant", Content: "Hello!", Metadata: map[string]interface{}{"intent": "general"}},
	}

	got := lastTutorialSteps(messages)

	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].StepNumber)
	assert.Equal(t, "Click **Regions**.", got[0].Text)
	assert.Equal(t, "/images/regions.png", got[0].Image)
	assert.Equal(t, "Press **Save**.", got[1].Text)
}

func TestLastTutorialStepsNoTutorialYet(t *testing.T) {
	messages := []*entity.ChatMessage{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi!", Metadata: map[string]interface{}{"intent": "general"}},
	}

	assert.Nil(t, lastTutorialSteps(messages))
	assert.Nil(t, lastTutorialSteps(nil))
}

func TestResponseMetadata(t *testing.T) {
	result := &machine.Result{
		Response: &state.Response{
			Type:    state.ResponseTutorial,
			Content: "Here are the steps:",
			Title:   "Add New Region",
			Steps:   []state.Step{{StepNumber: 1, Text: "Click **Regions**."}},
		},
		DetectedIntent:   state.IntentTutorial,
		DetectedLanguage: state.LanguageEnglish,
		ProcessingPath:   []string{"analyze_request", "route_decision", "tutorial_agent", "validate_response"},
	}

	metadata := responseMetadata(result)

	assert.NotContains(t, metadata, "content")
	assert.Equal(t, "tutorial", metadata["type"])
	assert.Equal(t, "Add New Region", metadata["title"])
	assert.Equal(t, "tutorial", metadata["intent"])
	assert.Equal(t, "English", metadata["language"])
	assert.Contains(t, metadata, "steps")
}

func TestToReplyDTO(t *testing.T) {
	response := &state.Response{
		Type:              state.ResponseTutorial,
		Content:           "Here are the steps:",
		Title:             "Add New Region",
		Steps:             []state.Step{{StepNumber: 1, Text: "Click **Regions**.", Image: "/images/regions.png"}},
		Summary:           "I hope these 1 steps help you achieve your goal.",
		ProTip:            "Follow each step carefully.",
		CompletionMessage: "Thank you!",
		SectionTitle:      "Add New Region",
	}

	reply := toReplyDTO(response)

	assert.Equal(t, "tutorial", reply.Type)
	assert.Equal(t, "Here are the steps:", reply.Message)
	assert.Len(t, reply.Steps, 1)
	assert.Equal(t, "Click **Regions**.", reply.Steps[0].Description)
	assert.Equal(t, "/images/regions.png", reply.Steps[0].ImagePath)
	assert.Equal(t, "Add New Region", reply.Extra["section_title"])
	assert.NotContains(t, reply.Extra, "features")
}

func TestTruncateTitle(t *testing.T) {
	short := "How to add a region?"
	assert.Equal(t, short, truncateTitle(short))

	long := "How do I configure the distributor onboarding workflow for the northern sales region?"
	got := truncateTitle(long)
	assert.Len(t, []rune(got), sessionTitleMaxLen+3)
	assert.Equal(t, "...", got[len(got)-3:])
}
