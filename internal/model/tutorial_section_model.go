package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TutorialSection struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TutorialId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Section         string         `gorm:"type:text;not null"`
	TaskDescription string         `gorm:"type:text"`
	Steps           datatypes.JSON `gorm:"type:jsonb"` // ordered step list with descriptions and image paths
	SortOrder       int            `gorm:"default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (TutorialSection) TableName() string {
	return "tutorial_sections"
}
