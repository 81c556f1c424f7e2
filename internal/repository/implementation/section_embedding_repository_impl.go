package implementation

import (
	"context"
	"errors"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/mapper"
	"portal-assistant-be/internal/model"
	"portal-assistant-be/internal/repository/contract"
	"portal-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SectionEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SectionEmbeddingMapper
}

func NewSectionEmbeddingRepository(db *gorm.DB) contract.SectionEmbeddingRepository {
	return &SectionEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewSectionEmbeddingMapper(),
	}
}

func (r *SectionEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SectionEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.SectionEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *SectionEmbeddingRepositoryImpl) Update(ctx context.Context, embedding *entity.SectionEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *SectionEmbeddingRepositoryImpl) DeleteBySectionId(ctx context.Context, sectionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("section_id = ?", sectionId).Delete(&model.SectionEmbedding{}).Error
}

func (r *SectionEmbeddingRepositoryImpl) DeleteBySectionIdsUnscoped(ctx context.Context, sectionIds []uuid.UUID) error {
	if len(sectionIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Where("section_id IN ?", sectionIds).Delete(&model.SectionEmbedding{}).Error
}

func (r *SectionEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SectionEmbedding, error) {
	var m model.SectionEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SectionEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SectionEmbedding, error) {
	var models []*model.SectionEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SectionEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SectionEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SectionEmbeddingRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredSectionEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.SectionEmbedding
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// Cosine distance via pgvector: embedding_value <=> vector.
	err := r.db.WithContext(ctx).
		Table("section_embeddings").
		Select("section_embeddings.*, embedding_value <=> ? as distance", queryVector).
		Where("section_embeddings.deleted_at IS NULL").
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSectionEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSectionEmbedding{
			Embedding: r.mapper.ToEntity(&res.SectionEmbedding),
			Distance:  res.Distance,
		}
	}
	return scored, nil
}

func (r *SectionEmbeddingRepositoryImpl) FindByTitle(ctx context.Context, title string, language string) (*entity.SectionEmbedding, error) {
	var models []*model.SectionEmbedding
	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	for _, m := range models {
		if m.Language == language {
			return r.mapper.ToEntity(m), nil
		}
	}
	return r.mapper.ToEntity(models[0]), nil
}

func (r *SectionEmbeddingRepositoryImpl) ContentHashes(ctx context.Context) (map[uuid.UUID]string, error) {
	type row struct {
		SectionId   uuid.UUID
		ContentHash string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.SectionEmbedding{}).
		Select("section_id, content_hash").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	hashes := make(map[uuid.UUID]string, len(rows))
	for _, rw := range rows {
		hashes[rw.SectionId] = rw.ContentHash
	}
	return hashes, nil
}
