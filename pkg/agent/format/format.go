package format

import (
	"strings"
	"unicode"

	"portal-assistant-be/pkg/agent/state"
)

// StepText bolds terms wrapped in single quotes and strips the quotes.
// Apostrophes inside words (don't, user's) are left alone: a delimiter
// only opens after a non-word character and only closes before one.
func StepText(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)

	i := 0
	for i < len(runes) {
		if runes[i] == '\'' && (i == 0 || !isWordRune(runes[i-1])) {
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j < len(runes) && j > i+1 && (j+1 >= len(runes) || !isWordRune(runes[j+1])) {
				b.WriteString("**")
				b.WriteString(string(runes[i+1 : j]))
				b.WriteString("**")
				i = j + 1
				continue
			}
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ImagePath normalizes a step image reference to begin with "/".
func ImagePath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + strings.TrimLeft(path, "/")
}

// Response applies StepText to every user-visible string of a response.
func Response(r *state.Response) {
	if r == nil {
		return
	}
	r.Content = StepText(r.Content)
	r.Title = StepText(r.Title)
	r.Summary = StepText(r.Summary)
	r.ProTip = StepText(r.ProTip)
	r.CompletionMessage = StepText(r.CompletionMessage)
	r.FooterCTA = StepText(r.FooterCTA)
	for i := range r.Steps {
		r.Steps[i].Text = StepText(r.Steps[i].Text)
	}
	for i := range r.Features {
		r.Features[i].Title = StepText(r.Features[i].Title)
		r.Features[i].Description = StepText(r.Features[i].Description)
	}
	for i := range r.SuggestedActions {
		r.SuggestedActions[i] = StepText(r.SuggestedActions[i])
	}
	if r.ClarifiedStep != nil {
		r.ClarifiedStep.Original = StepText(r.ClarifiedStep.Original)
		r.ClarifiedStep.Clarified = StepText(r.ClarifiedStep.Clarified)
	}
}
