package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SendMessageRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Message       string    `json:"message" validate:"required"`
	// LastTutorial lets a stateless client pin the tutorial that step
	// clarifications refer to. When absent it is recovered from the
	// session's stored messages.
	LastTutorial []TutorialStepDTO `json:"last_tutorial,omitempty"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

// TutorialStepDTO is one rendered step of a tutorial answer.
type TutorialStepDTO struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
}

// AssistantReplyDTO is the structured answer the engine produced.
type AssistantReplyDTO struct {
	Type              string                 `json:"type"`
	Message           string                 `json:"message,omitempty"`
	Title             string                 `json:"title,omitempty"`
	Steps             []TutorialStepDTO      `json:"steps,omitempty"`
	Summary           string                 `json:"summary,omitempty"`
	ProTip            string                 `json:"pro_tip,omitempty"`
	CompletionMessage string                 `json:"completion_message,omitempty"`
	Extra             map[string]interface{} `json:"extra,omitempty"`
}

type SendMessageResponse struct {
	ChatSessionId    uuid.UUID         `json:"chat_session_id"`
	ChatSessionTitle string            `json:"title"`
	Reply            AssistantReplyDTO `json:"reply"`
	Suggestions      []string          `json:"suggestions"`
	Intent           string            `json:"intent"`
	Language         string            `json:"language"`
	ProcessingPath   []string          `json:"processing_path,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}
