package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "KNOWLEDGE_SYNCED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields every event needs.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published on the bus.
const (
	TypeKnowledgeSynced   = "KNOWLEDGE_SYNCED"
	TypeTutorialPublished = "TUTORIAL_PUBLISHED"
	TypeTutorialRemoved   = "TUTORIAL_REMOVED"
)

// NewKnowledgeSyncedEvent is emitted after an ingestion sync finishes and the
// in-memory knowledge index has been refreshed.
func NewKnowledgeSyncedEvent(added, updated, deleted int) Event {
	return BaseEvent{
		Type: TypeKnowledgeSynced,
		Data: map[string]interface{}{
			"added":   added,
			"updated": updated,
			"deleted": deleted,
		},
		OccurredAt: time.Now(),
	}
}

// NewTutorialPublishedEvent is emitted when a tutorial becomes visible to the
// ingestion pipeline.
func NewTutorialPublishedEvent(tutorialID, title string) Event {
	return BaseEvent{
		Type: TypeTutorialPublished,
		Data: map[string]interface{}{
			"tutorial_id": tutorialID,
			"title":       title,
		},
		OccurredAt: time.Now(),
	}
}

// NewTutorialRemovedEvent is emitted when a tutorial is deleted.
func NewTutorialRemovedEvent(tutorialID string) Event {
	return BaseEvent{
		Type: TypeTutorialRemoved,
		Data: map[string]interface{}{
			"tutorial_id": tutorialID,
		},
		OccurredAt: time.Now(),
	}
}
