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

type TutorialSectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TutorialMapper
}

func NewTutorialSectionRepository(db *gorm.DB) contract.TutorialSectionRepository {
	return &TutorialSectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTutorialMapper(),
	}
}

func (r *TutorialSectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TutorialSectionRepositoryImpl) Create(ctx context.Context, section *entity.TutorialSection) error {
	m := r.mapper.SectionToModel(section)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*section = *r.mapper.SectionToEntity(m)
	return nil
}

func (r *TutorialSectionRepositoryImpl) CreateBulk(ctx context.Context, sections []*entity.TutorialSection) error {
	if len(sections) == 0 {
		return nil
	}
	models := make([]*model.TutorialSection, len(sections))
	for i, s := range sections {
		models[i] = r.mapper.SectionToModel(s)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*sections[i] = *r.mapper.SectionToEntity(m)
	}
	return nil
}

func (r *TutorialSectionRepositoryImpl) Update(ctx context.Context, section *entity.TutorialSection) error {
	m := r.mapper.SectionToModel(section)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*section = *r.mapper.SectionToEntity(m)
	return nil
}

func (r *TutorialSectionRepositoryImpl) DeleteByTutorialId(ctx context.Context, tutorialId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("tutorial_id = ?", tutorialId).Delete(&model.TutorialSection{}).Error
}

func (r *TutorialSectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TutorialSection, error) {
	var m model.TutorialSection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SectionToEntity(&m), nil
}

func (r *TutorialSectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TutorialSection, error) {
	var models []*model.TutorialSection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SectionsToEntities(models), nil
}

func (r *TutorialSectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TutorialSection{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
