package state

// Language is the normalized response language. Anything the analyzer
// cannot map to Roman-Urdu collapses to English.
type Language string

const (
	LanguageEnglish   Language = "English"
	LanguageRomanUrdu Language = "Roman-Urdu"
)

func (l Language) IsUrdu() bool {
	switch l {
	case LanguageRomanUrdu:
		return true
	}
	return false
}

// Intent is the coarse category of user need used to select a handler.
type Intent string

const (
	IntentGeneral       Intent = "general"
	IntentTutorial      Intent = "tutorial"
	IntentCapabilities  Intent = "capabilities"
	IntentClarify       Intent = "clarify"
	IntentHistoryRecall Intent = "history_recall"
	IntentSummarization Intent = "summarization"
	IntentFallback      Intent = "fallback"
)

// ValidIntents is the closed set the analyzer may emit. Anything else is
// coerced to fallback.
var ValidIntents = map[Intent]bool{
	IntentGeneral:       true,
	IntentTutorial:      true,
	IntentCapabilities:  true,
	IntentClarify:       true,
	IntentHistoryRecall: true,
	IntentSummarization: true,
	IntentFallback:      true,
}

// Node names the states of the routing machine.
type Node string

const (
	NodeAnalyzeRequest      Node = "analyze_request"
	NodeRouteDecision       Node = "route_decision"
	NodeGeneralAgent        Node = "general_agent"
	NodeTutorialAgent       Node = "tutorial_agent"
	NodeCapabilitiesAgent   Node = "capabilities_agent"
	NodeClarificationAgent  Node = "clarification_agent"
	NodeHistorySummaryAgent Node = "history_summary_agent"
	NodeFallbackAgent       Node = "fallback_agent"
	NodeValidateResponse    Node = "validate_response"
	NodeEnd                 Node = "END"
)

// State carries one conversation turn through the routing machine. It is
// owned by a single request and never shared between goroutines except
// during the explicit fan-out inside a handler.
type State struct {
	UserQuery             string
	Intent                Intent
	Confidence            float64
	DetectedLanguage      Language
	IsConfused            bool
	RequiresClarification bool
	StepToClarify         int // 1-based, 0 means unset
	Response              *Response
	ConversationHistory   []string
	LastTutorial          []Step
	Suggestions           []string
	NextNode              Node
	ProcessingPath        []string
	ValidationResults     map[string]interface{}
}

func New(userQuery string, history []string, lastTutorial []Step) *State {
	return &State{
		UserQuery:           userQuery,
		Intent:              IntentFallback,
		DetectedLanguage:    LanguageEnglish,
		ConversationHistory: history,
		LastTutorial:        lastTutorial,
		ValidationResults:   make(map[string]interface{}),
	}
}

func (s *State) Visit(node Node) {
	s.ProcessingPath = append(s.ProcessingPath, string(node))
}

// LastN returns the most recent n entries of a history slice.
func LastN(history []string, n int) []string {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
