package entity

import (
	"time"

	"github.com/google/uuid"
)

type Tutorial struct {
	Id        uuid.UUID
	Title     string
	Language  string
	Published bool
	Sections  []*TutorialSection
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type TutorialSection struct {
	Id              uuid.UUID
	TutorialId      uuid.UUID
	Section         string
	TaskDescription string
	Steps           []TutorialStep
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}

type TutorialStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
}
