package retrieval

import (
	"context"
	"fmt"
	"strings"

	"portal-assistant-be/internal/pkg/logger"
	"portal-assistant-be/pkg/agent/format"
	"portal-assistant-be/pkg/agent/state"
	"portal-assistant-be/pkg/llm"
	"portal-assistant-be/pkg/vectorstore"

	gocache "github.com/patrickmn/go-cache"
)

// Result is the outcome of resolving a query against the tutorial corpus.
// Type is tutorial, no_relevant_content, or tutorial_fallback when the
// index has nothing to search yet.
type Result struct {
	Type         state.ResponseType
	Content      string
	Steps        []state.Step
	SectionTitle string
}

// Resolver finds the single tutorial section that answers a query. It
// keeps an exact-raw-query response cache for the life of the process;
// Refresh clears it in full.
type Resolver struct {
	store            vectorstore.Store
	llm              llm.Provider
	cache            *gocache.Cache
	logger           logger.ILogger
	fastPathDistance float64
	topK             int
}

func NewResolver(store vectorstore.Store, provider llm.Provider, log logger.ILogger, fastPathDistance float64, topK int) *Resolver {
	if topK <= 0 {
		topK = 5
	}
	return &Resolver{
		store:            store,
		llm:              provider,
		cache:            gocache.New(gocache.NoExpiration, 0),
		logger:           log,
		fastPathDistance: fastPathDistance,
		topK:             topK,
	}
}

// Resolve returns the matched section or a no-relevant-content result.
// Errors are returned to the caller and never cached, so a transient
// failure self-heals on the next identical query.
func (r *Resolver) Resolve(ctx context.Context, userQuery string) (*Result, error) {
	if cached, found := r.cache.Get(userQuery); found {
		r.logger.Debug("retrieval", "cache hit", map[string]interface{}{"query": userQuery})
		return cached.(*Result), nil
	}

	candidates, err := r.store.Search(ctx, userQuery, r.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	if len(candidates) == 0 {
		// An empty index (nothing synced yet) is a no-match, not a
		// failure. Not cached, so answers appear as soon as a sync runs.
		return &Result{Type: state.ResponseTutorialFallback}, nil
	}

	var matched *vectorstore.ScoredDocument

	if candidates[0].Distance < r.fastPathDistance {
		// Unambiguous match, skip the disambiguation call entirely.
		matched = &candidates[0]
		r.logger.Debug("retrieval", "fast path match", map[string]interface{}{
			"query":    userQuery,
			"title":    matched.Title,
			"distance": matched.Distance,
		})
	} else {
		selected, err := r.selectTitle(ctx, userQuery, candidates)
		if err != nil {
			return nil, err
		}
		if selected != "NONE" {
			for i := range candidates {
				if candidates[i].Title == selected {
					matched = &candidates[i]
					break
				}
			}
		}
	}

	var result *Result
	if matched == nil {
		result = &Result{
			Type:    state.ResponseNoRelevantContent,
			Content: "I'm sorry, I couldn't find any information about that in the system.",
		}
	} else {
		steps := make([]state.Step, 0, len(matched.Steps))
		for i, s := range matched.Steps {
			steps = append(steps, state.Step{
				StepNumber: i + 1,
				Text:       format.StepText(s.Description),
				Image:      format.ImagePath(s.ImagePath),
			})
		}
		result = &Result{
			Type:         state.ResponseTutorial,
			Content:      "Sure! Here is the step by step answer to your query.",
			Steps:        steps,
			SectionTitle: matched.Title,
		}
	}

	// Success and "no relevant content" are both cacheable outcomes.
	r.cache.Set(userQuery, result, gocache.NoExpiration)
	return result, nil
}

// selectTitle asks the model to pick exactly one candidate title, or
// refuse with NONE rather than guess.
func (r *Resolver) selectTitle(ctx context.Context, userQuery string, candidates []vectorstore.ScoredDocument) (string, error) {
	titles := dedupeTitles(candidates)

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("User asked: %q\n\n", userQuery))
	prompt.WriteString("Available tutorial sections:\n")
	for _, title := range titles {
		prompt.WriteString("- ")
		prompt.WriteString(title)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\nInstructions:\n")
	prompt.WriteString("Select the ONE section title that EXACTLY matches what the user is asking for.\n")
	prompt.WriteString("CRITICAL RULES:\n")
	prompt.WriteString("1. Do NOT assume relationships between distinct objects (e.g., \"Shoes\" are NOT \"Products\", \"Employees\" are NOT \"Agents\").\n")
	prompt.WriteString("2. If the user's specific topic is NOT listed above, return \"NONE\".\n")
	prompt.WriteString("3. Be strict. Better to return \"NONE\" than a wrong tutorial.\n\n")
	prompt.WriteString("Return ONLY the title of the section or \"NONE\". No other text.\n")

	answer, err := r.llm.Generate(ctx, prompt.String(), llm.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("disambiguation call failed: %w", err)
	}

	selected := strings.TrimSpace(answer)
	selected = strings.Trim(selected, `"'`)
	return selected, nil
}

// dedupeTitles keeps the first occurrence of each title, preserving
// candidate order.
func dedupeTitles(candidates []vectorstore.ScoredDocument) []string {
	seen := make(map[string]bool, len(candidates))
	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Title != "" && !seen[c.Title] {
			seen[c.Title] = true
			titles = append(titles, c.Title)
		}
	}
	return titles
}

// ClearCache drops every cached response. Called on knowledge refresh.
func (r *Resolver) ClearCache() {
	r.cache.Flush()
}
