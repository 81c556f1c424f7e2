package knowledge

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/vectorstore"
)

const (
	keyEnglish   = "english"
	keyRomanUrdu = "roman-urdu"
)

// snapshot is an immutable view of the indexed topic titles per language.
// Readers always see either the previous snapshot or the next one, never
// a half-built index.
type snapshot struct {
	topics map[string][]string
}

// Index enumerates the section titles currently known to the vector
// store, grouped by language. It grounds suggestion generation so the
// assistant never advertises topics it cannot answer.
type Index struct {
	store     vectorstore.Store
	current   atomic.Pointer[snapshot]
	refreshMu sync.Mutex
}

func NewIndex(store vectorstore.Store) *Index {
	idx := &Index{store: store}
	idx.current.Store(&snapshot{topics: map[string][]string{
		keyEnglish:   {},
		keyRomanUrdu: {},
	}})
	return idx
}

// Refresh rebuilds the snapshot from the store and swaps it in atomically.
// Only one refresh runs at a time; request handling keeps reading the old
// snapshot until the swap.
func (i *Index) Refresh(ctx context.Context) error {
	i.refreshMu.Lock()
	defer i.refreshMu.Unlock()

	docs, err := i.store.GetAll(ctx)
	if err != nil {
		return err
	}

	topics := map[string][]string{
		keyEnglish:   {},
		keyRomanUrdu: {},
	}
	seen := map[string]map[string]bool{
		keyEnglish:   {},
		keyRomanUrdu: {},
	}

	for _, doc := range docs {
		if doc.Title == "" {
			continue
		}
		key := languageKey(doc.Language)
		if !seen[key][doc.Title] {
			seen[key][doc.Title] = true
			topics[key] = append(topics[key], doc.Title)
		}
	}

	i.current.Store(&snapshot{topics: topics})
	return nil
}

// Topics returns the known section titles for a language. The slice is
// shared with the snapshot; callers must not mutate it.
func (i *Index) Topics(language state.Language) []string {
	snap := i.current.Load()
	return snap.topics[languageKey(string(language))]
}

func languageKey(raw string) string {
	lowered := strings.ToLower(raw)
	if strings.Contains(lowered, "roman") || strings.Contains(lowered, "ur") {
		return keyRomanUrdu
	}
	return keyEnglish
}
