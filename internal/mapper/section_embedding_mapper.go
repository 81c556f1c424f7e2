package mapper

import (
	"encoding/json"
	"time"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SectionEmbeddingMapper struct{}

func NewSectionEmbeddingMapper() *SectionEmbeddingMapper {
	return &SectionEmbeddingMapper{}
}

func (m *SectionEmbeddingMapper) ToEntity(e *model.SectionEmbedding) *entity.SectionEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var steps []entity.TutorialStep
	if len(e.Steps) > 0 {
		_ = json.Unmarshal(e.Steps, &steps)
	}

	return &entity.SectionEmbedding{
		Id:              e.Id,
		SectionId:       e.SectionId,
		Document:        e.Document,
		EmbeddingValue:  e.EmbeddingValue.Slice(),
		Title:           e.Title,
		Language:        e.Language,
		Section:         e.Section,
		TaskDescription: e.TaskDescription,
		Steps:           steps,
		ContentHash:     e.ContentHash,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       e.DeletedAt.Valid,
	}
}

func (m *SectionEmbeddingMapper) ToModel(e *entity.SectionEmbedding) *model.SectionEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var steps datatypes.JSON
	if e.Steps != nil {
		if raw, err := json.Marshal(e.Steps); err == nil {
			steps = raw
		}
	}

	return &model.SectionEmbedding{
		Id:              e.Id,
		SectionId:       e.SectionId,
		Document:        e.Document,
		EmbeddingValue:  pgvector.NewVector(e.EmbeddingValue),
		Title:           e.Title,
		Language:        e.Language,
		Section:         e.Section,
		TaskDescription: e.TaskDescription,
		Steps:           steps,
		ContentHash:     e.ContentHash,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *SectionEmbeddingMapper) ToEntities(embeddings []*model.SectionEmbedding) []*entity.SectionEmbedding {
	entities := make([]*entity.SectionEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
