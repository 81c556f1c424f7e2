package unitofwork

import (
	"context"

	"portal-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	TutorialRepository() contract.TutorialRepository
	TutorialSectionRepository() contract.TutorialSectionRepository
	SectionEmbeddingRepository() contract.SectionEmbeddingRepository
}
