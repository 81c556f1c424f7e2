package contract

import (
	"context"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TutorialRepository interface {
	Create(ctx context.Context, tutorial *entity.Tutorial) error
	Update(ctx context.Context, tutorial *entity.Tutorial) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tutorial, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tutorial, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type TutorialSectionRepository interface {
	Create(ctx context.Context, section *entity.TutorialSection) error
	CreateBulk(ctx context.Context, sections []*entity.TutorialSection) error
	Update(ctx context.Context, section *entity.TutorialSection) error
	DeleteByTutorialId(ctx context.Context, tutorialId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TutorialSection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TutorialSection, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
