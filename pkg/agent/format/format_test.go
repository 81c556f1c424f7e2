package format

import (
	"testing"

	"portal-assistant-be/pkg/agent/state"
)

func TestStepText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "quoted term is bolded",
			in:   "Click on 'Region' to continue",
			want: "Click on **Region** to continue",
		},
		{
			name: "apostrophe in contraction untouched",
			in:   "Don't click twice",
			want: "Don't click twice",
		},
		{
			name: "possessive untouched",
			in:   "Open the user's profile",
			want: "Open the user's profile",
		},
		{
			name: "quoted term at string start",
			in:   "'Region' page opens",
			want: "**Region** page opens",
		},
		{
			name: "quoted term at string end",
			in:   "Navigate to 'Region'",
			want: "Navigate to **Region**",
		},
		{
			name: "multiple quoted terms",
			in:   "Select 'Bank' then 'Wallet'",
			want: "Select **Bank** then **Wallet**",
		},
		{
			name: "contraction next to quoted term",
			in:   "Don't skip 'Save'",
			want: "Don't skip **Save**",
		},
		{
			name: "empty quotes untouched",
			in:   "Press '' now",
			want: "Press '' now",
		},
		{
			name: "no quotes",
			in:   "Plain instruction text",
			want: "Plain instruction text",
		},
		{
			name: "multi word phrase",
			in:   "Go to 'Add New Region' page",
			want: "Go to **Add New Region** page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StepText(tt.in)
			if got != tt.want {
				t.Errorf("StepText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImagePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"images/step1.png", "/images/step1.png"},
		{"/images/step1.png", "/images/step1.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ImagePath(tt.in); got != tt.want {
			t.Errorf("ImagePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResponseFormatsAllFields(t *testing.T) {
	resp := &state.Response{
		Type:    state.ResponseTutorial,
		Content: "Steps for 'Region':",
		Steps: []state.Step{
			{StepNumber: 1, Text: "Open 'Settings'"},
		},
		Summary:          "Covers the 'Region' setup",
		SuggestedActions: []string{"View details of 'Region'"},
		ClarifiedStep: &state.ClarifiedStep{
			Original:  "Click 'Save'",
			Clarified: "Press the 'Save' button",
		},
	}

	Response(resp)

	if resp.Content != "Steps for **Region**:" {
		t.Errorf("content not formatted: %q", resp.Content)
	}
	if resp.Steps[0].Text != "Open **Settings**" {
		t.Errorf("step not formatted: %q", resp.Steps[0].Text)
	}
	if resp.Summary != "Covers the **Region** setup" {
		t.Errorf("summary not formatted: %q", resp.Summary)
	}
	if resp.SuggestedActions[0] != "View details of **Region**" {
		t.Errorf("suggestion not formatted: %q", resp.SuggestedActions[0])
	}
	if resp.ClarifiedStep.Clarified != "Press the **Save** button" {
		t.Errorf("clarified step not formatted: %q", resp.ClarifiedStep.Clarified)
	}
}
