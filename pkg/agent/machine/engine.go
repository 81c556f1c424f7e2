package machine

import (
	"context"
	"fmt"
	"sync"

	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/pkg/agent/analyze"
	"portal-assistant-be/pkg/agent/format"
	"portal-assistant-be/pkg/agent/generate"
	"portal-assistant-be/pkg/agent/knowledge"
	"portal-assistant-be/pkg/agent/retrieval"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
)

// Result is what one processed turn hands back to the caller. The
// conversation history already includes this turn's exchange.
type Result struct {
	Response            *state.Response
	ConversationHistory []string
	DetectedIntent      state.Intent
	DetectedLanguage    state.Language
	ProcessingPath      []string
	ValidationResults   map[string]interface{}
}

type handlerFunc func(ctx context.Context, s *state.State)

// Engine runs the analyze -> route -> agent -> validate pipeline for a
// single conversation turn.
type Engine struct {
	analyzer            *analyze.RequestAnalyzer
	resolver            *retrieval.Resolver
	suggestions         *generate.SuggestionGenerator
	greetings           *generate.GreetingGenerator
	clarifier           *generate.StepClarifier
	index               *knowledge.Index
	llm                 llm.Provider
	logger              logger.ILogger
	confidenceThreshold float64

	handlers  map[state.Node]handlerFunc
	refreshMu sync.Mutex
}

type Params struct {
	Analyzer            *analyze.RequestAnalyzer
	Resolver            *retrieval.Resolver
	Suggestions         *generate.SuggestionGenerator
	Greetings           *generate.GreetingGenerator
	Clarifier           *generate.StepClarifier
	Index               *knowledge.Index
	LLM                 llm.Provider
	Logger              logger.ILogger
	ConfidenceThreshold float64
}

func NewEngine(p Params) *Engine {
	if p.ConfidenceThreshold <= 0 {
		p.ConfidenceThreshold = 0.4
	}

	e := &Engine{
		analyzer:            p.Analyzer,
		resolver:            p.Resolver,
		suggestions:         p.Suggestions,
		greetings:           p.Greetings,
		clarifier:           p.Clarifier,
		index:               p.Index,
		llm:                 p.LLM,
		logger:              p.Logger,
		confidenceThreshold: p.ConfidenceThreshold,
	}

	e.handlers = map[state.Node]handlerFunc{
		state.NodeGeneralAgent:        e.generalAgent,
		state.NodeTutorialAgent:       e.tutorialAgent,
		state.NodeCapabilitiesAgent:   e.capabilitiesAgent,
		state.NodeClarificationAgent:  e.clarificationAgent,
		state.NodeHistorySummaryAgent: e.historySummaryAgent,
		state.NodeFallbackAgent:       e.fallbackAgent,
	}

	return e
}

// Process runs one turn. It never returns an error: a panic anywhere in
// the pipeline degrades to an error-typed Response so the conversation
// survives.
func (e *Engine) Process(ctx context.Context, userQuery string, history []string, lastTutorial []state.Step) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("engine", "panic while processing turn", map[string]interface{}{
				"query": userQuery,
				"panic": fmt.Sprintf("%v", rec),
			})
			result = &Result{
				Response: &state.Response{
					Type:             state.ResponseError,
					Content:          fmt.Sprintf("I encountered an error: %v", rec),
					SuggestedActions: []string{"How to add a new region?", "What can you help me with?"},
				},
				ConversationHistory: history,
				ValidationResults:   map[string]interface{}{},
			}
		}
	}()

	s := state.New(userQuery, history, lastTutorial)

	e.analyzeRequest(ctx, s)
	e.routeDecision(s)

	handler, ok := e.handlers[s.NextNode]
	if !ok {
		handler = e.fallbackAgent
	}
	handler(ctx, s)

	e.validateResponse(s)

	format.Response(s.Response)

	s.ConversationHistory = append(s.ConversationHistory, "User: "+userQuery)
	s.ConversationHistory = append(s.ConversationHistory, "Assistant: "+s.Response.Content)

	e.logger.Info("engine", "turn processed", map[string]interface{}{
		"intent":   string(s.Intent),
		"language": string(s.DetectedLanguage),
		"path":     s.ProcessingPath,
		"type":     string(s.Response.Type),
	})

	return &Result{
		Response:            s.Response,
		ConversationHistory: s.ConversationHistory,
		DetectedIntent:      s.Intent,
		DetectedLanguage:    s.DetectedLanguage,
		ProcessingPath:      s.ProcessingPath,
		ValidationResults:   s.ValidationResults,
	}
}

// Refresh rebuilds the topic index and drops the resolver's response
// cache. Concurrent calls are serialized; in-flight turns keep using the
// old snapshot until the swap.
func (e *Engine) Refresh(ctx context.Context) error {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	if err := e.index.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh topic index: %w", err)
	}
	e.resolver.ClearCache()

	e.logger.Info("engine", "knowledge refreshed", nil)
	return nil
}

func (e *Engine) analyzeRequest(ctx context.Context, s *state.State) {
	analysis := e.analyzer.Analyze(ctx, s.UserQuery, s.ConversationHistory)

	s.Intent = analysis.Intent
	s.Confidence = analysis.Confidence
	s.DetectedLanguage = analysis.Language
	s.IsConfused = analysis.IsConfused
	s.StepToClarify = analysis.StepNumber
	s.RequiresClarification = analysis.Intent == state.IntentClarify && analysis.StepNumber == 0

	s.ValidationResults["language_analysis"] = map[string]interface{}{
		"language":              string(analysis.Language),
		"has_emotional_content": false,
	}

	s.Visit(state.NodeAnalyzeRequest)
}

var routeMap = map[state.Intent]state.Node{
	state.IntentGeneral:       state.NodeGeneralAgent,
	state.IntentTutorial:      state.NodeTutorialAgent,
	state.IntentCapabilities:  state.NodeCapabilitiesAgent,
	state.IntentClarify:       state.NodeClarificationAgent,
	state.IntentHistoryRecall: state.NodeHistorySummaryAgent,
	state.IntentSummarization: state.NodeHistorySummaryAgent,
	state.IntentFallback:      state.NodeFallbackAgent,
}

func (e *Engine) routeDecision(s *state.State) {
	if s.Confidence < e.confidenceThreshold {
		s.NextNode = state.NodeFallbackAgent
	} else if node, ok := routeMap[s.Intent]; ok {
		s.NextNode = node
	} else {
		s.NextNode = state.NodeFallbackAgent
	}

	s.Visit(state.NodeRouteDecision)
}

// validateResponse records whether the handler honored the response
// contract. It observes only; a failing response is never rewritten.
func (e *Engine) validateResponse(s *state.State) {
	if s.Response == nil {
		s.ValidationResults["response_valid"] = false
		return
	}

	s.ValidationResults["response_valid"] = s.Response.Valid()
	s.Visit(state.NodeValidateResponse)
}
