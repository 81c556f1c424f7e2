package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTutorialID struct {
	TutorialID uuid.UUID
}

func (s ByTutorialID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tutorial_id = ?", s.TutorialID)
}

type ByLanguage struct {
	Language string
}

func (s ByLanguage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("language = ?", s.Language)
}

// ByExactTitle matches a title case-insensitively but otherwise exactly.
type ByExactTitle struct {
	Title string
}

func (s ByExactTitle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(title) = LOWER(?)", s.Title)
}

type BySectionID struct {
	SectionID uuid.UUID
}

func (s BySectionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("section_id = ?", s.SectionID)
}

type PublishedOnly struct{}

func (s PublishedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("published = true")
}
