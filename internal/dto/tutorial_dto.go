package dto

import (
	"time"

	"github.com/google/uuid"
)

type TutorialStepRequest struct {
	StepNumber  int    `json:"step_number" validate:"required,min=1"`
	Description string `json:"description" validate:"required"`
	ImagePath   string `json:"image_path"`
}

type TutorialSectionRequest struct {
	Section         string                `json:"section" validate:"required"`
	TaskDescription string                `json:"task_description"`
	Steps           []TutorialStepRequest `json:"steps" validate:"required,min=1,dive"`
	SortOrder       int                   `json:"sort_order"`
}

type CreateTutorialRequest struct {
	Title    string                   `json:"title" validate:"required"`
	Language string                   `json:"language" validate:"required"`
	Sections []TutorialSectionRequest `json:"sections" validate:"required,min=1,dive"`
}

type CreateTutorialResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateTutorialRequest struct {
	Title    string                   `json:"title" validate:"required"`
	Language string                   `json:"language" validate:"required"`
	Sections []TutorialSectionRequest `json:"sections" validate:"required,min=1,dive"`
}

type TutorialSectionResponse struct {
	Id              uuid.UUID             `json:"id"`
	Section         string                `json:"section"`
	TaskDescription string                `json:"task_description"`
	Steps           []TutorialStepRequest `json:"steps"`
	SortOrder       int                   `json:"sort_order"`
}

type GetTutorialResponse struct {
	Id        uuid.UUID                 `json:"id"`
	Title     string                    `json:"title"`
	Language  string                    `json:"language"`
	Published bool                      `json:"published"`
	Sections  []TutorialSectionResponse `json:"sections"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt *time.Time                `json:"updated_at"`
}

type ListTutorialsResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Published bool      `json:"published"`
	Sections  int       `json:"sections"`
	CreatedAt time.Time `json:"created_at"`
}
