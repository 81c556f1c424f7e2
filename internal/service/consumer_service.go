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
	"portal-assistant-be/pkg/agent/machine"
	"portal-assistant-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService processes section embedding jobs published by the
// tutorial service, keeping the vector index warm without blocking
// authoring requests.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Provider
	engine     *machine.Engine
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Provider,
	engine *machine.Engine,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		embedder:   embedder,
		engine:     engine,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSectionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal embed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed messages would retry forever
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	section, err := uow.TutorialSectionRepository().FindOne(ctx, specification.ByID{ID: payload.SectionId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load section", map[string]interface{}{
			"section_id": payload.SectionId.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if section == nil {
		// Section deleted between publish and consume.
		msg.Ack()
		return
	}

	tutorial, err := uow.TutorialRepository().FindOne(ctx, specification.ByID{ID: section.TutorialId})
	if err != nil {
		msg.Nack()
		return
	}
	if tutorial == nil || !tutorial.Published {
		msg.Ack()
		return
	}

	document := BuildSectionDocument(tutorial, section)
	hash := SectionContentHash(document, section.Steps)

	existing, err := uow.SectionEmbeddingRepository().FindOne(ctx, specification.BySectionID{SectionID: section.Id})
	if err != nil {
		msg.Nack()
		return
	}
	if existing != nil && existing.ContentHash == hash {
		msg.Ack()
		return
	}

	embedded, err := cs.embedder.Generate(ctx, document, embedding.TaskRetrievalDocument)
	if err != nil {
		cs.logger.Error("consumer", "failed to embed section", map[string]interface{}{
			"section_id": section.Id.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	record := &entity.SectionEmbedding{
		SectionId:       section.Id,
		Document:        document,
		EmbeddingValue:  embedded.Values,
		Title:           section.Section,
		Language:        tutorial.Language,
		Section:         section.Section,
		TaskDescription: section.TaskDescription,
		Steps:           section.Steps,
		ContentHash:     hash,
	}

	if existing != nil {
		record.Id = existing.Id
		record.CreatedAt = existing.CreatedAt
		now := time.Now()
		record.UpdatedAt = &now
		err = uow.SectionEmbeddingRepository().Update(ctx, record)
	} else {
		record.Id = uuid.New()
		record.CreatedAt = time.Now()
		err = uow.SectionEmbeddingRepository().Create(ctx, record)
	}
	if err != nil {
		cs.logger.Error("consumer", "failed to persist embedding", map[string]interface{}{
			"section_id": section.Id.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if err := cs.engine.Refresh(ctx); err != nil {
		cs.logger.Warn("consumer", "engine refresh failed after embed", map[string]interface{}{"error": err.Error()})
	}

	cs.logger.Info("consumer", "section indexed", map[string]interface{}{
		"section_id": section.Id.String(),
		"title":      section.Section,
	})
	msg.Ack()
}
