package services

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Routing keys of the note lifecycle events.
const (
	EventNoteCreated  = "note.created"
	EventNoteUpdated  = "note.updated"
	EventNoteDeleted  = "note.deleted"
	EventNoteShared   = "note.shared"
	EventNoteUnshared = "note.unshared"
)

// EventPublisher delivers events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// NoteEvent is the payload of every note event. It never carries content or tokens.
type NoteEvent struct {
	Type       string    `json:"type"`
	NoteID     string    `json:"note_id"`
	OwnerID    string    `json:"owner_id,omitempty"`
	IsShared   bool      `json:"is_shared"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent sends an event if a publisher is configured. Failures are logged
// only: the mutation has already been committed.
func publishEvent(p EventPublisher, event NoteEvent) {
	if p == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("failed to marshal note event")
		return
	}
	if err := p.Publish(event.Type, body); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Str("note_id", event.NoteID).Msg("failed to publish note event")
	}
}
