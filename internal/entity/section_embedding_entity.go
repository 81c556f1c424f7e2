package entity

import (
	"time"

	"github.com/google/uuid"
)

type SectionEmbedding struct {
	Id              uuid.UUID
	SectionId       uuid.UUID
	Document        string
	EmbeddingValue  []float32
	Title           string
	Language        string
	Section         string
	TaskDescription string
	Steps           []TutorialStep
	ContentHash     string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
