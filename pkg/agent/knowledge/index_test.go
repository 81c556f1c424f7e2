package knowledge

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/vectorstore"
)

type stubStore struct {
	docs []vectorstore.Document
	err  error
}

func (s *stubStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	return nil, nil
}

func (s *stubStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	return s.docs, s.err
}

func (s *stubStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	return nil, nil
}

func TestRefreshGroupsTitlesByLanguage(t *testing.T) {
	store := &stubStore{docs: []vectorstore.Document{
		{Title: "Add New Region", Language: "english"},
		{Title: "Add New Distributor", Language: "english"},
		{Title: "Naya Region Add Karain", Language: "roman-urdu"},
		{Title: "Add New Region", Language: "english"}, // duplicate
		{Title: "", Language: "english"},               // skipped
	}}

	idx := NewIndex(store)
	if err := idx.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	english := idx.Topics(state.LanguageEnglish)
	wantEnglish := []string{"Add New Region", "Add New Distributor"}
	if !reflect.DeepEqual(english, wantEnglish) {
		t.Errorf("english topics = %v, want %v", english, wantEnglish)
	}

	urdu := idx.Topics(state.LanguageRomanUrdu)
	wantUrdu := []string{"Naya Region Add Karain"}
	if !reflect.DeepEqual(urdu, wantUrdu) {
		t.Errorf("roman-urdu topics = %v, want %v", urdu, wantUrdu)
	}
}

func TestRefreshFailureKeepsOldSnapshot(t *testing.T) {
	store := &stubStore{docs: []vectorstore.Document{
		{Title: "Add New Region", Language: "english"},
	}}
	idx := NewIndex(store)
	if err := idx.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	store.err = errors.New("store unavailable")
	if err := idx.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	topics := idx.Topics(state.LanguageEnglish)
	if len(topics) != 1 || topics[0] != "Add New Region" {
		t.Errorf("old snapshot lost: %v", topics)
	}
}

func TestTopicsEmptyBeforeFirstRefresh(t *testing.T) {
	idx := NewIndex(&stubStore{})
	if got := idx.Topics(state.LanguageEnglish); len(got) != 0 {
		t.Errorf("expected empty topics, got %v", got)
	}
}
