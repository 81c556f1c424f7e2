package service

import (
	"context"
	"testing"

	"portal-assistant-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
)

type fixedStore struct {
	document  *vectorstore.Document
	lastTitle string
	lastLang  string
}

func (f *fixedStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	return nil, nil
}

func (f *fixedStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	return nil, nil
}

func (f *fixedStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	f.lastTitle = title
	f.lastLang = language
	return f.document, nil
}

func TestSectionLookup(t *testing.T) {
	store := &fixedStore{document: &vectorstore.Document{
		ID:              "6f1c1a9e-0000-0000-0000-000000000001",
		Title:           "Add New Region",
		Language:        "english",
		Section:         "Add New Region",
		TaskDescription: "Create a region from the admin panel",
		Steps: []vectorstore.Step{
			{StepNumber: 1, Description: "Click **Regions**.", ImagePath: "/images/regions.png"},
			{StepNumber: 2, Description: "Press **Save**."},
		},
	}}
	svc := &knowledgeService{store: store}

	res, err := svc.Section(context.Background(), "Add New Region", "english")

	assert.NoError(t, err)
	assert.Equal(t, "Add New Region", store.lastTitle)
	assert.Equal(t, "english", store.lastLang)
	assert.Equal(t, "Add New Region", res.Title)
	assert.Len(t, res.Steps, 2)
	assert.Equal(t, "/images/regions.png", res.Steps[0].ImagePath)
}

func TestSectionLookupMiss(t *testing.T) {
	svc := &knowledgeService{store: &fixedStore{}}

	res, err := svc.Section(context.Background(), "No Such Section", "")

	assert.NoError(t, err)
	assert.Nil(t, res)
}
