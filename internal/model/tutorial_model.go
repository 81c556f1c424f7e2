package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tutorial struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:text;not null"`
	Language  string         `gorm:"type:varchar(30);not null;default:'english'"`
	Published bool           `gorm:"default:false;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Tutorial) TableName() string {
	return "tutorials"
}
