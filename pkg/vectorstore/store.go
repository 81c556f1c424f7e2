package vectorstore

import "context"

// Step is one instruction inside a tutorial section.
type Step struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
}

// Document is a tutorial section as stored in the vector index.
type Document struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Language        string `json:"language"`
	Section         string `json:"section"`
	TaskDescription string `json:"task_description"`
	Steps           []Step `json:"steps"`
}

// ScoredDocument pairs a document with its cosine distance from the query.
// Lower distance means a closer match.
type ScoredDocument struct {
	Document
	Distance float64 `json:"distance"`
}

// Store is the retrieval surface the conversation engine depends on.
type Store interface {
	// Search embeds the query and returns the topK nearest documents
	// ordered by ascending distance.
	Search(ctx context.Context, query string, topK int) ([]ScoredDocument, error)

	// GetAll returns every document's metadata. Used to build the
	// knowledge index; steps may be omitted by implementations.
	GetAll(ctx context.Context) ([]Document, error)

	// FindByTitle returns the document whose title matches exactly,
	// preferring the given language when duplicates exist.
	FindByTitle(ctx context.Context, title string, language string) (*Document, error)
}
