package service

import (
	"context"
	"encoding/json"
	"time"

	"portal-assistant-be/internal/dto"
	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/internal/repository/specification"
	"portal-assistant-be/internal/repository/unitofwork"
	"portal-assistant-be/pkg/events"
	pkgNats "portal-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

type ITutorialService interface {
	Create(ctx context.Context, req *dto.CreateTutorialRequest) (*dto.CreateTutorialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTutorialRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.GetTutorialResponse, error)
	GetAll(ctx context.Context) ([]*dto.ListTutorialsResponse, error)
	Publish(ctx context.Context, id uuid.UUID) error
	Unpublish(ctx context.Context, id uuid.UUID) error
}

type tutorialService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	natsPub          *pkgNats.Publisher
	logger           logger.ILogger
}

func NewTutorialService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) ITutorialService {
	return &tutorialService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		natsPub:          natsPub,
		logger:           log,
	}
}

func (t *tutorialService) Create(ctx context.Context, req *dto.CreateTutorialRequest) (*dto.CreateTutorialResponse, error) {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	tutorial := entity.Tutorial{
		Id:        uuid.New(),
		Title:     req.Title,
		Language:  req.Language,
		CreatedAt: time.Now(),
	}
	if err := uow.TutorialRepository().Create(ctx, &tutorial); err != nil {
		return nil, err
	}

	sections := toSectionEntities(tutorial.Id, req.Sections)
	if err := uow.TutorialSectionRepository().CreateBulk(ctx, sections); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateTutorialResponse{Id: tutorial.Id}, nil
}

func (t *tutorialService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateTutorialRequest) error {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tutorial == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	tutorial.Title = req.Title
	tutorial.Language = req.Language
	tutorial.UpdatedAt = &now
	if err := uow.TutorialRepository().Update(ctx, tutorial); err != nil {
		return err
	}

	// Sections are replaced wholesale; their embeddings rebuild from the
	// new section ids.
	oldSections, err := uow.TutorialSectionRepository().FindAll(ctx, specification.ByTutorialID{TutorialID: id})
	if err != nil {
		return err
	}
	if err := uow.TutorialSectionRepository().DeleteByTutorialId(ctx, id); err != nil {
		return err
	}

	sections := toSectionEntities(id, req.Sections)
	if err := uow.TutorialSectionRepository().CreateBulk(ctx, sections); err != nil {
		return err
	}

	oldIds := make([]uuid.UUID, 0, len(oldSections))
	for _, section := range oldSections {
		oldIds = append(oldIds, section.Id)
	}
	if len(oldIds) > 0 {
		if err := uow.SectionEmbeddingRepository().DeleteBySectionIdsUnscoped(ctx, oldIds); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if tutorial.Published {
		t.enqueueEmbedJobs(ctx, sections)
	}
	return nil
}

func (t *tutorialService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tutorial == nil {
		return nil
	}

	sections, err := uow.TutorialSectionRepository().FindAll(ctx, specification.ByTutorialID{TutorialID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sectionIds := make([]uuid.UUID, 0, len(sections))
	for _, section := range sections {
		sectionIds = append(sectionIds, section.Id)
	}
	if len(sectionIds) > 0 {
		if err := uow.SectionEmbeddingRepository().DeleteBySectionIdsUnscoped(ctx, sectionIds); err != nil {
			return err
		}
	}

	if err := uow.TutorialSectionRepository().DeleteByTutorialId(ctx, id); err != nil {
		return err
	}
	if err := uow.TutorialRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	t.publishEvent(ctx, events.NewTutorialRemovedEvent(id.String()))
	return nil
}

func (t *tutorialService) Show(ctx context.Context, id uuid.UUID) (*dto.GetTutorialResponse, error) {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if tutorial == nil {
		return nil, nil
	}

	sections, err := uow.TutorialSectionRepository().FindAll(ctx,
		specification.ByTutorialID{TutorialID: id},
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	res := dto.GetTutorialResponse{
		Id:        tutorial.Id,
		Title:     tutorial.Title,
		Language:  tutorial.Language,
		Published: tutorial.Published,
		CreatedAt: tutorial.CreatedAt,
		UpdatedAt: tutorial.UpdatedAt,
		Sections:  make([]dto.TutorialSectionResponse, 0, len(sections)),
	}
	for _, section := range sections {
		steps := make([]dto.TutorialStepRequest, 0, len(section.Steps))
		for _, step := range section.Steps {
			steps = append(steps, dto.TutorialStepRequest{
				StepNumber:  step.StepNumber,
				Description: step.Description,
				ImagePath:   step.ImagePath,
			})
		}
		res.Sections = append(res.Sections, dto.TutorialSectionResponse{
			Id:              section.Id,
			Section:         section.Section,
			TaskDescription: section.TaskDescription,
			Steps:           steps,
			SortOrder:       section.SortOrder,
		})
	}

	return &res, nil
}

func (t *tutorialService) GetAll(ctx context.Context) ([]*dto.ListTutorialsResponse, error) {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorials, err := uow.TutorialRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ListTutorialsResponse, 0, len(tutorials))
	for _, tutorial := range tutorials {
		count, err := uow.TutorialSectionRepository().Count(ctx, specification.ByTutorialID{TutorialID: tutorial.Id})
		if err != nil {
			return nil, err
		}
		result = append(result, &dto.ListTutorialsResponse{
			Id:        tutorial.Id,
			Title:     tutorial.Title,
			Language:  tutorial.Language,
			Published: tutorial.Published,
			Sections:  int(count),
			CreatedAt: tutorial.CreatedAt,
		})
	}
	return result, nil
}

func (t *tutorialService) Publish(ctx context.Context, id uuid.UUID) error {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tutorial == nil || tutorial.Published {
		return nil
	}

	now := time.Now()
	tutorial.Published = true
	tutorial.UpdatedAt = &now
	if err := uow.TutorialRepository().Update(ctx, tutorial); err != nil {
		return err
	}

	sections, err := uow.TutorialSectionRepository().FindAll(ctx, specification.ByTutorialID{TutorialID: id})
	if err != nil {
		return err
	}
	t.enqueueEmbedJobs(ctx, sections)

	t.publishEvent(ctx, events.NewTutorialPublishedEvent(id.String(), tutorial.Title))
	return nil
}

func (t *tutorialService) Unpublish(ctx context.Context, id uuid.UUID) error {
	uow := t.uowFactory.NewUnitOfWork(ctx)

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if tutorial == nil || !tutorial.Published {
		return nil
	}

	now := time.Now()
	tutorial.Published = false
	tutorial.UpdatedAt = &now
	if err := uow.TutorialRepository().Update(ctx, tutorial); err != nil {
		return err
	}

	sections, err := uow.TutorialSectionRepository().FindAll(ctx, specification.ByTutorialID{TutorialID: id})
	if err != nil {
		return err
	}
	sectionIds := make([]uuid.UUID, 0, len(sections))
	for _, section := range sections {
		sectionIds = append(sectionIds, section.Id)
	}
	if len(sectionIds) > 0 {
		if err := uow.SectionEmbeddingRepository().DeleteBySectionIdsUnscoped(ctx, sectionIds); err != nil {
			return err
		}
	}

	t.publishEvent(ctx, events.NewTutorialRemovedEvent(id.String()))
	return nil
}

func (t *tutorialService) enqueueEmbedJobs(ctx context.Context, sections []*entity.TutorialSection) {
	for _, section := range sections {
		msg := dto.PublishEmbedSectionMessage{SectionId: section.Id}
		payload, _ := json.Marshal(msg)
		if err := t.publisherService.Publish(ctx, payload); err != nil {
			t.logger.Error("tutorial", "failed to enqueue embed job", map[string]interface{}{
				"section_id": section.Id.String(),
				"error":      err.Error(),
			})
		}
	}
}

func (t *tutorialService) publishEvent(ctx context.Context, event events.Event) {
	if t.natsPub == nil {
		return
	}
	if err := t.natsPub.Publish(ctx, event); err != nil {
		t.logger.Warn("tutorial", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func toSectionEntities(tutorialId uuid.UUID, sections []dto.TutorialSectionRequest) []*entity.TutorialSection {
	entities := make([]*entity.TutorialSection, 0, len(sections))
	for i, section := range sections {
		steps := make([]entity.TutorialStep, 0, len(section.Steps))
		for _, step := range section.Steps {
			steps = append(steps, entity.TutorialStep{
				StepNumber:  step.StepNumber,
				Description: step.Description,
				ImagePath:   step.ImagePath,
			})
		}

		sortOrder := section.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		entities = append(entities, &entity.TutorialSection{
			Id:              uuid.New(),
			TutorialId:      tutorialId,
			Section:         section.Section,
			TaskDescription: section.TaskDescription,
			Steps:           steps,
			SortOrder:       sortOrder,
			CreatedAt:       time.Now(),
		})
	}
	return entities
}
