package machine

import (
	"context"
	"fmt"
	"sync"

	"portal-assistant-be/pkg/agent/state"
)

// tutorialAgent resolves the query against the tutorial corpus and
// renders the matched section as numbered steps. A pending step
// clarification short-circuits retrieval entirely.
func (e *Engine) tutorialAgent(ctx context.Context, s *state.State) {
	if s.StepToClarify > 0 {
		e.handleStepClarification(ctx, s)
		return
	}

	isUrdu := s.DetectedLanguage.IsUrdu()

	resolved, err := e.resolver.Resolve(ctx, s.UserQuery)
	if err != nil {
		e.logger.Error("tutorial_agent", "retrieval failed", map[string]interface{}{
			"query": s.UserQuery,
			"error": err.Error(),
		})
		suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentTutorial, s.ConversationHistory, s.DetectedLanguage)
		s.Response = &state.Response{
			Type:             state.ResponseError,
			Content:          "Error retrieving tutorial.",
			SuggestedActions: suggestions,
		}
		s.Suggestions = suggestions
		s.Visit(state.NodeTutorialAgent)
		return
	}

	switch {
	case resolved.Type == state.ResponseTutorial && len(resolved.Steps) > 0:
		var (
			intro       string
			suggestions []string
			wg          sync.WaitGroup
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			intro = e.greetings.Generate(ctx, s.UserQuery, resolved.SectionTitle, s.DetectedLanguage)
		}()
		go func() {
			defer wg.Done()
			suggestions = e.suggestions.Generate(ctx, s.UserQuery, state.IntentTutorial, s.ConversationHistory, s.DetectedLanguage)
		}()
		wg.Wait()

		summary := fmt.Sprintf("I hope these %d steps help you achieve your goal.", len(resolved.Steps))
		proTip := "Follow each step carefully."
		outro := "Thank you!"
		if isUrdu {
			summary = fmt.Sprintf("Main pur-umeed hoon ke in %d steps se aapki madad hui hogi.", len(resolved.Steps))
			proTip = "Steps ko carefully follow karain."
			outro = "Shukriya!"
		}

		s.LastTutorial = resolved.Steps
		s.Response = &state.Response{
			Type:              state.ResponseTutorial,
			Content:           intro,
			Steps:             resolved.Steps,
			Summary:           summary,
			ProTip:            proTip,
			CompletionMessage: outro,
			SectionTitle:      resolved.SectionTitle,
			SuggestedActions:  suggestions,
			IsUrdu:            isUrdu,
		}
		s.Suggestions = suggestions

	case resolved.Type == state.ResponseNoRelevantContent:
		// Fallback intent keeps the suggestions grounded instead of
		// riffing on an out-of-scope query.
		suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentFallback, s.ConversationHistory, s.DetectedLanguage)
		s.Response = &state.Response{
			Type:             state.ResponseNoRelevantContent,
			Content:          fmt.Sprintf("It looks like the topic **'%s'** is not related to this system. If you have a general question, feel free to ask! However, I cannot provide a tutorial for this specific topic as it is not part of the system documentation.", s.UserQuery),
			SuggestedActions: suggestions,
		}
		s.Suggestions = suggestions

	default:
		suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentTutorial, s.ConversationHistory, s.DetectedLanguage)
		s.Response = &state.Response{
			Type:             state.ResponseTutorialFallback,
			Content:          fmt.Sprintf("No steps found for '%s'.", s.UserQuery),
			SuggestedActions: suggestions,
		}
		s.Suggestions = suggestions
	}

	s.Visit(state.NodeTutorialAgent)
}

// handleStepClarification restates one step of the previous tutorial in
// plainer wording.
func (e *Engine) handleStepClarification(ctx context.Context, s *state.State) {
	stepIdx := s.StepToClarify
	suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentClarify, s.ConversationHistory, s.DetectedLanguage)

	if len(s.LastTutorial) == 0 || stepIdx < 1 || stepIdx > len(s.LastTutorial) {
		s.Response = &state.Response{
			Type:             state.ResponseTutorialClarifyError,
			Content:          "Please ask for a tutorial first.",
			SuggestedActions: suggestions,
		}
		s.Suggestions = suggestions
		s.Visit(state.NodeTutorialAgent)
		return
	}

	step := s.LastTutorial[stepIdx-1]
	clarified := e.clarifier.Clarify(ctx, step.Text, stepIdx, s.DetectedLanguage)

	s.Response = &state.Response{
		Type:    state.ResponseTutorialClarify,
		Content: fmt.Sprintf("Step %d clarification:", stepIdx),
		ClarifiedStep: &state.ClarifiedStep{
			StepNumber: stepIdx,
			Original:   step.Text,
			Clarified:  clarified,
			Image:      step.Image,
		},
		SuggestedActions: suggestions,
		IsUrdu:           s.DetectedLanguage.IsUrdu(),
	}
	s.Suggestions = suggestions
	s.Visit(state.NodeTutorialAgent)
}
