package service

import (
	"context"

	"portal-assistant-be/internal/entity"
	"portal-assistant-be/internal/repository/unitofwork"
	"portal-assistant-be/pkg/embedding"
	"portal-assistant-be/pkg/vectorstore"
)

// knowledgeStore adapts the section embedding repository to the vector
// store interface the routing engine consumes. Queries are embedded here;
// documents are embedded during sync.
type knowledgeStore struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Provider
}

func NewKnowledgeStore(uowFactory unitofwork.RepositoryFactory, embedder embedding.Provider) vectorstore.Store {
	return &knowledgeStore{
		uowFactory: uowFactory,
		embedder:   embedder,
	}
}

func (s *knowledgeStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	embedded, err := s.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.SectionEmbeddingRepository().SearchNearest(ctx, embedded.Values, topK)
	if err != nil {
		return nil, err
	}

	results := make([]vectorstore.ScoredDocument, 0, len(scored))
	for _, hit := range scored {
		results = append(results, vectorstore.ScoredDocument{
			Document: toDocument(hit.Embedding),
			Distance: hit.Distance,
		})
	}
	return results, nil
}

func (s *knowledgeStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	embeddings, err := uow.SectionEmbeddingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]vectorstore.Document, 0, len(embeddings))
	for _, e := range embeddings {
		docs = append(docs, toDocument(e))
	}
	return docs, nil
}

func (s *knowledgeStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	e, err := uow.SectionEmbeddingRepository().FindByTitle(ctx, title, language)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	doc := toDocument(e)
	return &doc, nil
}

func toDocument(e *entity.SectionEmbedding) vectorstore.Document {
	steps := make([]vectorstore.Step, 0, len(e.Steps))
	for _, step := range e.Steps {
		steps = append(steps, vectorstore.Step{
			StepNumber:  step.StepNumber,
			Description: step.Description,
			ImagePath:   step.ImagePath,
		})
	}
	return vectorstore.Document{
		ID:              e.SectionId.String(),
		Title:           e.Title,
		Language:        e.Language,
		Section:         e.Section,
		TaskDescription: e.TaskDescription,
		Steps:           steps,
	}
}
