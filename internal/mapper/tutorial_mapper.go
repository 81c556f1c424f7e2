package mapper

import (
	"encoding/json"
	"time"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TutorialMapper struct{}

func NewTutorialMapper() *TutorialMapper {
	return &TutorialMapper{}
}

func (m *TutorialMapper) ToEntity(t *model.Tutorial) *entity.Tutorial {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		dt := t.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ut := t.UpdatedAt
		updatedAt = &ut
	}

	return &entity.Tutorial{
		Id:        t.Id,
		Title:     t.Title,
		Language:  t.Language,
		Published: t.Published,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: t.DeletedAt.Valid,
	}
}

func (m *TutorialMapper) ToModel(t *entity.Tutorial) *model.Tutorial {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Tutorial{
		Id:        t.Id,
		Title:     t.Title,
		Language:  t.Language,
		Published: t.Published,
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *TutorialMapper) SectionToEntity(s *model.TutorialSection) *entity.TutorialSection {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		dt := s.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		ut := s.UpdatedAt
		updatedAt = &ut
	}

	var steps []entity.TutorialStep
	if len(s.Steps) > 0 {
		_ = json.Unmarshal(s.Steps, &steps)
	}

	return &entity.TutorialSection{
		Id:              s.Id,
		TutorialId:      s.TutorialId,
		Section:         s.Section,
		TaskDescription: s.TaskDescription,
		Steps:           steps,
		SortOrder:       s.SortOrder,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       s.DeletedAt.Valid,
	}
}

func (m *TutorialMapper) SectionToModel(s *entity.TutorialSection) *model.TutorialSection {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var steps datatypes.JSON
	if s.Steps != nil {
		if raw, err := json.Marshal(s.Steps); err == nil {
			steps = raw
		}
	}

	return &model.TutorialSection{
		Id:              s.Id,
		TutorialId:      s.TutorialId,
		Section:         s.Section,
		TaskDescription: s.TaskDescription,
		Steps:           steps,
		SortOrder:       s.SortOrder,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *TutorialMapper) SectionsToEntities(sections []*model.TutorialSection) []*entity.TutorialSection {
	entities := make([]*entity.TutorialSection, len(sections))
	for i, s := range sections {
		entities[i] = m.SectionToEntity(s)
	}
	return entities
}
