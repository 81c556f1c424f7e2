package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"portal-assistant-be/internal/dto"
	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/internal/repository/specification"
	"portal-assistant-be/internal/repository/unitofwork"
	"portal-assistant-be/pkg/agent/knowledge"
	"portal-assistant-be/pkg/agent/machine"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/embedding"
	"portal-assistant-be/pkg/events"
	pkgNats "portal-assistant-be/pkg/nats"
	"portal-assistant-be/pkg/vectorstore"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	// Sync diffs published tutorial sections against the embedding table
	// by content hash and only re-embeds what changed.
	Sync(ctx context.Context) (*dto.SyncKnowledgeResponse, error)
	Index(ctx context.Context) (*dto.KnowledgeIndexResponse, error)
	// Section fetches one indexed section by its exact title.
	Section(ctx context.Context, title string, language string) (*dto.KnowledgeSectionResponse, error)
}

type knowledgeService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Provider
	engine     *machine.Engine
	index      *knowledge.Index
	store      vectorstore.Store
	natsPub    *pkgNats.Publisher
	logger     logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	engine *machine.Engine,
	index *knowledge.Index,
	store vectorstore.Store,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory: uowFactory,
		embedder:   embedder,
		engine:     engine,
		index:      index,
		store:      store,
		natsPub:    natsPub,
		logger:     log,
	}
}

type sectionDocument struct {
	section  *entity.TutorialSection
	tutorial *entity.Tutorial
	document string
	hash     string
}

func (s *knowledgeService) Sync(ctx context.Context) (*dto.SyncKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tutorials, err := uow.TutorialRepository().FindAll(ctx, specification.PublishedOnly{})
	if err != nil {
		return nil, fmt.Errorf("load published tutorials: %w", err)
	}

	desired := make(map[uuid.UUID]*sectionDocument)
	for _, tutorial := range tutorials {
		sections, err := uow.TutorialSectionRepository().FindAll(ctx,
			specification.ByTutorialID{TutorialID: tutorial.Id},
			specification.OrderBy{Field: "sort_order"},
		)
		if err != nil {
			return nil, fmt.Errorf("load sections of %s: %w", tutorial.Id, err)
		}
		for _, section := range sections {
			doc := BuildSectionDocument(tutorial, section)
			desired[section.Id] = &sectionDocument{
				section:  section,
				tutorial: tutorial,
				document: doc,
				hash:     SectionContentHash(doc, section.Steps),
			}
		}
	}

	existing, err := uow.SectionEmbeddingRepository().ContentHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content hashes: %w", err)
	}

	result := &dto.SyncKnowledgeResponse{}

	for sectionId, doc := range desired {
		currentHash, indexed := existing[sectionId]
		if indexed && currentHash == doc.hash {
			result.Unchanged++
			continue
		}

		embedded, err := s.embedder.Generate(ctx, doc.document, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed section %s: %w", sectionId, err)
		}

		record := &entity.SectionEmbedding{
			SectionId:       sectionId,
			Document:        doc.document,
			EmbeddingValue:  embedded.Values,
			Title:           doc.section.Section,
			Language:        doc.tutorial.Language,
			Section:         doc.section.Section,
			TaskDescription: doc.section.TaskDescription,
			Steps:           doc.section.Steps,
			ContentHash:     doc.hash,
		}

		if indexed {
			current, err := uow.SectionEmbeddingRepository().FindOne(ctx, specification.BySectionID{SectionID: sectionId})
			if err != nil {
				return nil, err
			}
			record.Id = current.Id
			record.CreatedAt = current.CreatedAt
			now := time.Now()
			record.UpdatedAt = &now
			if err := uow.SectionEmbeddingRepository().Update(ctx, record); err != nil {
				return nil, fmt.Errorf("update embedding %s: %w", sectionId, err)
			}
			result.Updated++
		} else {
			record.Id = uuid.New()
			record.CreatedAt = time.Now()
			if err := uow.SectionEmbeddingRepository().Create(ctx, record); err != nil {
				return nil, fmt.Errorf("create embedding %s: %w", sectionId, err)
			}
			result.Added++
		}
	}

	stale := make([]uuid.UUID, 0)
	for sectionId := range existing {
		if _, keep := desired[sectionId]; !keep {
			stale = append(stale, sectionId)
		}
	}
	if len(stale) > 0 {
		if err := uow.SectionEmbeddingRepository().DeleteBySectionIdsUnscoped(ctx, stale); err != nil {
			return nil, fmt.Errorf("delete stale embeddings: %w", err)
		}
		result.Deleted = len(stale)
	}

	result.Indexed = len(desired)

	if err := s.engine.Refresh(ctx); err != nil {
		return nil, err
	}

	if s.natsPub != nil {
		event := events.NewKnowledgeSyncedEvent(result.Added, result.Updated, result.Deleted)
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Warn("knowledge", "failed to publish sync event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("knowledge", "sync complete", map[string]interface{}{
		"added":     result.Added,
		"updated":   result.Updated,
		"deleted":   result.Deleted,
		"unchanged": result.Unchanged,
	})

	return result, nil
}

func (s *knowledgeService) Index(ctx context.Context) (*dto.KnowledgeIndexResponse, error) {
	english := s.index.Topics(state.LanguageEnglish)
	romanUrdu := s.index.Topics(state.LanguageRomanUrdu)

	return &dto.KnowledgeIndexResponse{
		Topics: map[string][]string{
			"english":    english,
			"roman-urdu": romanUrdu,
		},
		Total: len(english) + len(romanUrdu),
	}, nil
}

func (s *knowledgeService) Section(ctx context.Context, title string, language string) (*dto.KnowledgeSectionResponse, error) {
	document, err := s.store.FindByTitle(ctx, title, language)
	if err != nil {
		return nil, fmt.Errorf("find section by title: %w", err)
	}
	if document == nil {
		return nil, nil
	}

	steps := make([]dto.TutorialStepDTO, 0, len(document.Steps))
	for _, step := range document.Steps {
		steps = append(steps, dto.TutorialStepDTO{
			StepNumber:  step.StepNumber,
			Description: step.Description,
			ImagePath:   step.ImagePath,
		})
	}

	return &dto.KnowledgeSectionResponse{
		SectionId:       document.ID,
		Title:           document.Title,
		Language:        document.Language,
		Section:         document.Section,
		TaskDescription: document.TaskDescription,
		Steps:           steps,
	}, nil
}

// BuildSectionDocument renders the text that gets embedded for one
// tutorial section.
func BuildSectionDocument(tutorial *entity.Tutorial, section *entity.TutorialSection) string {
	return fmt.Sprintf("Tutorial: %s | Language: %s | Section: %s | Task: %s | Steps: %d steps to complete this task",
		tutorial.Title, tutorial.Language, section.Section, section.TaskDescription, len(section.Steps))
}

// SectionContentHash fingerprints a section's embeddable content. Steps
// are included so edits to wording or images re-embed the section.
func SectionContentHash(document string, steps []entity.TutorialStep) string {
	h := sha256.New()
	h.Write([]byte(document))
	if raw, err := json.Marshal(steps); err == nil {
		h.Write(raw)
	}
	return hex.EncodeToString(h.Sum(nil))
}
