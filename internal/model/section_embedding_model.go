package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SectionEmbedding is one vector-indexed tutorial section. Metadata is
// denormalized onto the row so a similarity search returns everything the
// retrieval path needs without joins.
type SectionEmbedding struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SectionId       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Document        string          `gorm:"type:text"`
	EmbeddingValue  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 both emit 768 dims
	Title           string          `gorm:"type:text;not null;index"`
	Language        string          `gorm:"type:varchar(30);not null"`
	Section         string          `gorm:"type:text"`
	TaskDescription string          `gorm:"type:text"`
	Steps           datatypes.JSON  `gorm:"type:jsonb"`
	ContentHash     string          `gorm:"type:varchar(64);not null"` // sha256 of the section content, drives incremental sync
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (SectionEmbedding) TableName() string {
	return "section_embeddings"
}
