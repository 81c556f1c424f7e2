package state

// ResponseType tags the shape of a handler's answer.
type ResponseType string

const (
	ResponseGeneral              ResponseType = "general"
	ResponseTutorial             ResponseType = "tutorial"
	ResponseCapabilities         ResponseType = "capabilities"
	ResponseClarifyQuestion      ResponseType = "clarify_question"
	ResponseTutorialClarify      ResponseType = "tutorial_clarify"
	ResponseTutorialClarifyError ResponseType = "tutorial_clarify_error"
	ResponseNoRelevantContent    ResponseType = "no_relevant_content"
	ResponseTutorialFallback     ResponseType = "tutorial_fallback"
	ResponseFallback             ResponseType = "fallback"
	ResponseError                ResponseType = "error"
)

// Step is one rendered tutorial instruction.
type Step struct {
	StepNumber int    `json:"step_number,omitempty"`
	Text       string `json:"text"`
	Image      string `json:"image,omitempty"` // normalized to start with "/"
}

// Feature is one entry of the capabilities card.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ClarifiedStep pairs a step's original wording with its restatement.
type ClarifiedStep struct {
	StepNumber int    `json:"step_number"`
	Original   string `json:"original"`
	Clarified  string `json:"clarified"`
	Image      string `json:"image,omitempty"`
}

// Response is the contract every handler must produce. Content is never
// empty; a handler that cannot produce real content substitutes a canned
// message instead.
type Response struct {
	Type              ResponseType   `json:"type"`
	Content           string         `json:"content"`
	Title             string         `json:"title,omitempty"`
	Steps             []Step         `json:"steps,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	ProTip            string         `json:"pro_tip,omitempty"`
	CompletionMessage string         `json:"completion_message,omitempty"`
	Features          []Feature      `json:"features,omitempty"`
	FooterCTA         string         `json:"footer_cta,omitempty"`
	SuggestedActions  []string       `json:"suggested_actions,omitempty"`
	ClarifiedStep     *ClarifiedStep `json:"clarified_step,omitempty"`
	SectionTitle      string         `json:"section_title,omitempty"`
	IsUrdu            bool           `json:"is_urdu,omitempty"`
}

// Valid reports whether the response honors the contract.
func (r *Response) Valid() bool {
	return r != nil && r.Type != "" && r.Content != ""
}
