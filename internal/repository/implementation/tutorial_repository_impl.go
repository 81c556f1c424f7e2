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
	"gorm.io/gorm"
)

type TutorialRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TutorialMapper
}

func NewTutorialRepository(db *gorm.DB) contract.TutorialRepository {
	return &TutorialRepositoryImpl{
		db:     db,
		mapper: mapper.NewTutorialMapper(),
	}
}

func (r *TutorialRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TutorialRepositoryImpl) Create(ctx context.Context, tutorial *entity.Tutorial) error {
	m := r.mapper.ToModel(tutorial)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	sections := tutorial.Sections
	*tutorial = *r.mapper.ToEntity(m)
	tutorial.Sections = sections
	return nil
}

func (r *TutorialRepositoryImpl) Update(ctx context.Context, tutorial *entity.Tutorial) error {
	m := r.mapper.ToModel(tutorial)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	sections := tutorial.Sections
	*tutorial = *r.mapper.ToEntity(m)
	tutorial.Sections = sections
	return nil
}

func (r *TutorialRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tutorial{}, id).Error
}

func (r *TutorialRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tutorial, error) {
	var m model.Tutorial
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TutorialRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tutorial, error) {
	var models []*model.Tutorial
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Tutorial, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TutorialRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Tutorial{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
