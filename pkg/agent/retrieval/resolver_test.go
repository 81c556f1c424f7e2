package retrieval

import (
	"context"
	"errors"
	"testing"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
	"portal-assistant-be/pkg/vectorstore"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type countingStore struct {
	results     []vectorstore.ScoredDocument
	err         error
	searchCalls int
}

func (s *countingStore) Search(ctx context.Context, query string, topK int) ([]vectorstore.ScoredDocument, error) {
	s.searchCalls++
	return s.results, s.err
}

func (s *countingStore) GetAll(ctx context.Context) ([]vectorstore.Document, error) {
	return nil, nil
}

func (s *countingStore) FindByTitle(ctx context.Context, title string, language string) (*vectorstore.Document, error) {
	return nil, nil
}

type countingProvider struct {
	response      string
	err           error
	generateCalls int
}

func (p *countingProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *countingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.generateCalls++
	return p.response, p.err
}

func doc(title string, distance float64, steps ...vectorstore.Step) vectorstore.ScoredDocument {
	return vectorstore.ScoredDocument{
		Document: vectorstore.Document{
			Title: title,
			Steps: steps,
		},
		Distance: distance,
	}
}

func TestResolveFastPathSkipsDisambiguation(t *testing.T) {
	store := &countingStore{results: []vectorstore.ScoredDocument{
		doc("Add New Region", 0.05,
			vectorstore.Step{StepNumber: 1, Description: "Click 'Regions' in the menu", ImagePath: "images/regions.png"},
			vectorstore.Step{StepNumber: 2, Description: "Press Add"},
		),
		doc("Add New Area", 0.4),
	}}
	provider := &countingProvider{response: "Add New Area"}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	result, err := resolver.Resolve(context.Background(), "How to add a new region?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if provider.generateCalls != 0 {
		t.Errorf("disambiguation called %d times on fast path, want 0", provider.generateCalls)
	}
	if result.Type != state.ResponseTutorial {
		t.Errorf("type = %q, want tutorial", result.Type)
	}
	if result.SectionTitle != "Add New Region" {
		t.Errorf("section = %q, want Add New Region", result.SectionTitle)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(result.Steps))
	}
	if result.Steps[0].Text != "Click **Regions** in the menu" {
		t.Errorf("step text not formatted: %q", result.Steps[0].Text)
	}
	if result.Steps[0].Image != "/images/regions.png" {
		t.Errorf("image not normalized: %q", result.Steps[0].Image)
	}
	if result.Content == "" {
		t.Error("content must not be empty")
	}
}

func TestResolveSlowPathSelectsByExactTitle(t *testing.T) {
	store := &countingStore{results: []vectorstore.ScoredDocument{
		doc("Add New Post", 0.3, vectorstore.Step{Description: "Open posts"}),
		doc("Add New Product", 0.32, vectorstore.Step{Description: "Open products"}),
		doc("Add New Post", 0.35), // duplicate title
	}}
	provider := &countingProvider{response: `"Add New Product"`}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	result, err := resolver.Resolve(context.Background(), "how do I add a product?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if provider.generateCalls != 1 {
		t.Errorf("disambiguation calls = %d, want 1", provider.generateCalls)
	}
	if result.Type != state.ResponseTutorial {
		t.Errorf("type = %q, want tutorial", result.Type)
	}
	if result.SectionTitle != "Add New Product" {
		t.Errorf("section = %q, want Add New Product", result.SectionTitle)
	}
}

func TestResolveSlowPathNone(t *testing.T) {
	store := &countingStore{results: []vectorstore.ScoredDocument{
		doc("Add New Region", 0.6),
	}}
	provider := &countingProvider{response: "NONE"}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	result, err := resolver.Resolve(context.Background(), "asdkjasd")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Type != state.ResponseNoRelevantContent {
		t.Errorf("type = %q, want no_relevant_content", result.Type)
	}
	if result.Content == "" {
		t.Error("content must not be empty")
	}
}

func TestResolveUnlistedTitleIsNoMatch(t *testing.T) {
	store := &countingStore{results: []vectorstore.ScoredDocument{
		doc("Add New Region", 0.5),
	}}
	provider := &countingProvider{response: "Add New Warehouse"}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	result, err := resolver.Resolve(context.Background(), "warehouse setup")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Type != state.ResponseNoRelevantContent {
		t.Errorf("type = %q, want no_relevant_content", result.Type)
	}
}

func TestResolveEmptyIndexIsNoMatch(t *testing.T) {
	store := &countingStore{}
	provider := &countingProvider{}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	ctx := context.Background()
	result, err := resolver.Resolve(ctx, "How to add a new region?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Type != state.ResponseTutorialFallback {
		t.Errorf("type = %q, want tutorial_fallback", result.Type)
	}
	if provider.generateCalls != 0 {
		t.Errorf("disambiguation calls = %d, want 0", provider.generateCalls)
	}

	// A sync can populate the index at any moment; the empty outcome
	// must not stick in the cache.
	store.results = []vectorstore.ScoredDocument{
		doc("Add New Region", 0.05, vectorstore.Step{Description: "Open regions"}),
	}
	result, err = resolver.Resolve(ctx, "How to add a new region?")
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if result.Type != state.ResponseTutorial {
		t.Errorf("type = %q, want tutorial once the index has content", result.Type)
	}
	if store.searchCalls != 2 {
		t.Errorf("search calls = %d, want 2", store.searchCalls)
	}
}

func TestResolveCachesByExactQuery(t *testing.T) {
	store := &countingStore{results: []vectorstore.ScoredDocument{
		doc("Add New Region", 0.05, vectorstore.Step{Description: "Open regions"}),
	}}
	provider := &countingProvider{}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	ctx := context.Background()
	if _, err := resolver.Resolve(ctx, "How to add a new region?"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if _, err := resolver.Resolve(ctx, "How to add a new region?"); err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if store.searchCalls != 1 {
		t.Errorf("search calls = %d, want 1 (second hit served from cache)", store.searchCalls)
	}

	// Different casing is a different key.
	if _, err := resolver.Resolve(ctx, "how to add a new region?"); err != nil {
		t.Fatalf("third resolve failed: %v", err)
	}
	if store.searchCalls != 2 {
		t.Errorf("search calls = %d, want 2 (case-sensitive keying)", store.searchCalls)
	}

	resolver.ClearCache()
	if _, err := resolver.Resolve(ctx, "How to add a new region?"); err != nil {
		t.Fatalf("post-clear resolve failed: %v", err)
	}
	if store.searchCalls != 3 {
		t.Errorf("search calls = %d, want 3 (cache cleared)", store.searchCalls)
	}
}

func TestResolveErrorsAreNotCached(t *testing.T) {
	store := &countingStore{err: errors.New("store down")}
	provider := &countingProvider{}
	resolver := NewResolver(store, provider, noopLogger{}, 0.15, 5)

	ctx := context.Background()
	if _, err := resolver.Resolve(ctx, "How to add a new region?"); err == nil {
		t.Fatal("expected error")
	}

	store.err = nil
	store.results = []vectorstore.ScoredDocument{
		doc("Add New Region", 0.05, vectorstore.Step{Description: "Open regions"}),
	}
	result, err := resolver.Resolve(ctx, "How to add a new region?")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.Type != state.ResponseTutorial {
		t.Errorf("type = %q, want tutorial after transient failure", result.Type)
	}
	if store.searchCalls != 2 {
		t.Errorf("search calls = %d, want 2", store.searchCalls)
	}
}
