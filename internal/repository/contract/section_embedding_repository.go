package contract

import (
	"context"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSectionEmbedding pairs a section with its cosine distance from the
// query vector (0.0 = identical direction, 2.0 = opposite).
type ScoredSectionEmbedding struct {
	Embedding *entity.SectionEmbedding
	Distance  float64
}

type SectionEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.SectionEmbedding) error
	Update(ctx context.Context, embedding *entity.SectionEmbedding) error
	DeleteBySectionId(ctx context.Context, sectionId uuid.UUID) error
	DeleteBySectionIdsUnscoped(ctx context.Context, sectionIds []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SectionEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SectionEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchNearest returns the closest sections ordered by ascending
	// cosine distance.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*ScoredSectionEmbedding, error)
	// FindByTitle matches a section title exactly, preferring the given
	// language when the same title exists in several languages.
	FindByTitle(ctx context.Context, title string, language string) (*entity.SectionEmbedding, error)
	// ContentHashes returns section id -> content hash for every indexed
	// section. Drives the incremental sync diff.
	ContentHashes(ctx context.Context) (map[uuid.UUID]string, error)
}
