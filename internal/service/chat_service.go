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
	"portal-assistant-be/pkg/agent/state"

	"github.com/google/uuid"
)

const sessionTitleMaxLen = 50

type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	RenameSession(ctx context.Context, sessionId uuid.UUID, title string) (*dto.GetAllSessionsResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *machine.Engine
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *machine.Engine,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		engine:     engine,
		logger:     log,
	}
}

func (c *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session := entity.ChatSession{
		Id:        uuid.New(),
		Title:     "New Chat",
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (c *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, &dto.GetAllSessionsResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return result, nil
}

func (c *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		result = append(result, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			CreatedAt: msg.CreatedAt,
		})
	}
	return result, nil
}

func (c *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.ChatSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := buildHistory(messages)

	lastTutorial := requestTutorialSteps(req.LastTutorial)
	if lastTutorial == nil {
		lastTutorial = lastTutorialSteps(messages)
	}

	result := c.engine.Process(ctx, req.Message, history, lastTutorial)
	response := result.Response

	now := time.Now()
	userMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          "user",
		Content:       req.Message,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMsg); err != nil {
		return nil, err
	}

	assistantMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          "assistant",
		Content:       response.Content,
		Metadata:      responseMetadata(result),
		CreatedAt:     now.Add(time.Millisecond),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMsg); err != nil {
		return nil, err
	}

	// First exchange names the session after the opening question.
	if len(messages) == 0 {
		session.Title = truncateTitle(req.Message)
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	return &dto.SendMessageResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Reply:            toReplyDTO(response),
		Suggestions:      response.SuggestedActions,
		Intent:           string(result.DetectedIntent),
		Language:         string(result.DetectedLanguage),
		ProcessingPath:   result.ProcessingPath,
	}, nil
}

func (c *chatService) RenameSession(ctx context.Context, sessionId uuid.UUID, title string) (*dto.GetAllSessionsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := time.Now()
	session.Title = truncateTitle(title)
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.GetAllSessionsResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

func (c *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

// historyMaxMessages caps the transcript handed to the engine at the ten
// most recent exchanges.
const historyMaxMessages = 20

// buildHistory renders stored messages in the "User:" / "Assistant:"
// transcript form the engine consumes.
func buildHistory(messages []*entity.ChatMessage) []string {
	if len(messages) > historyMaxMessages {
		messages = messages[len(messages)-historyMaxMessages:]
	}

	history := make([]string, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			history = append(history, "User: "+msg.Content)
		case "assistant":
			history = append(history, "Assistant: "+msg.Content)
		}
	}
	return history
}

// requestTutorialSteps converts a client-supplied tutorial pin, if any.
func requestTutorialSteps(steps []dto.TutorialStepDTO) []state.Step {
	if len(steps) == 0 {
		return nil
	}
	converted := make([]state.Step, 0, len(steps))
	for _, step := range steps {
		converted = append(converted, state.Step{
			StepNumber: step.StepNumber,
			Text:       step.Description,
			Image:      step.ImagePath,
		})
	}
	return converted
}

// lastTutorialSteps recovers the step list of the most recent tutorial
// answer, so "explain step N" can reference it.
func lastTutorialSteps(messages []*entity.ChatMessage) []state.Step {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role != "assistant" || msg.Metadata == nil {
			continue
		}
		rawSteps, ok := msg.Metadata["steps"]
		if !ok {
			continue
		}

		encoded, err := json.Marshal(rawSteps)
		if err != nil {
			return nil
		}
		var steps []state.Step
		if err := json.Unmarshal(encoded, &steps); err != nil {
			return nil
		}
		if len(steps) > 0 {
			return steps
		}
	}
	return nil
}

// responseMetadata flattens the engine response into the message
// metadata column via a JSON round-trip.
func responseMetadata(result *machine.Result) map[string]interface{} {
	metadata := make(map[string]interface{})
	if encoded, err := json.Marshal(result.Response); err == nil {
		_ = json.Unmarshal(encoded, &metadata)
	}
	delete(metadata, "content")
	metadata["intent"] = string(result.DetectedIntent)
	metadata["language"] = string(result.DetectedLanguage)
	metadata["processing_path"] = result.ProcessingPath
	return metadata
}

func toReplyDTO(response *state.Response) dto.AssistantReplyDTO {
	reply := dto.AssistantReplyDTO{
		Type:              string(response.Type),
		Message:           response.Content,
		Title:             response.Title,
		Summary:           response.Summary,
		ProTip:            response.ProTip,
		CompletionMessage: response.CompletionMessage,
	}

	for _, step := range response.Steps {
		reply.Steps = append(reply.Steps, dto.TutorialStepDTO{
			StepNumber:  step.StepNumber,
			Description: step.Text,
			ImagePath:   step.Image,
		})
	}

	extra := make(map[string]interface{})
	if len(response.Features) > 0 {
		extra["features"] = response.Features
	}
	if response.FooterCTA != "" {
		extra["footer_cta"] = response.FooterCTA
	}
	if response.ClarifiedStep != nil {
		extra["clarified_step"] = response.ClarifiedStep
	}
	if response.SectionTitle != "" {
		extra["section_title"] = response.SectionTitle
	}
	if len(extra) > 0 {
		reply.Extra = extra
	}

	return reply
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleMaxLen {
		return message
	}
	return string(runes[:sessionTitleMaxLen]) + "..."
}
