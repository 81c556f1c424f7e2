package dto

import "github.com/google/uuid"

// PublishEmbedSectionMessage asks the consumer to (re)index one section.
type PublishEmbedSectionMessage struct {
	SectionId uuid.UUID `json:"section_id"`
}

// SyncKnowledgeResponse reports what an ingestion sync changed.
type SyncKnowledgeResponse struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
	Indexed   int `json:"indexed"`
}

// KnowledgeSectionResponse is one indexed section, fetched by exact title.
type KnowledgeSectionResponse struct {
	SectionId       string            `json:"section_id"`
	Title           string            `json:"title"`
	Language        string            `json:"language"`
	Section         string            `json:"section"`
	TaskDescription string            `json:"task_description"`
	Steps           []TutorialStepDTO `json:"steps"`
}

// KnowledgeIndexResponse exposes the in-memory topic index for debugging.
type KnowledgeIndexResponse struct {
	Topics map[string][]string `json:"topics"` // language -> section titles
	Total  int                 `json:"total"`
}
