package services

import (
	"fmt"

	"notes/internal/models"
)

// NoteAccessPolicy decides whether an actor may act on a note addressed by id.
// The note service itself never checks ownership; the transport applies a policy.
type NoteAccessPolicy interface {
	Authorize(actorID string, note *models.Note) error
}

// OpenAccess lets any actor act on any note.
type OpenAccess struct{}

// Authorize always allows.
func (OpenAccess) Authorize(string, *models.Note) error { return nil }

// OwnerOnly restricts notes to their owner.
type OwnerOnly struct{}

// Authorize returns ErrForbidden unless actorID owns note.
func (OwnerOnly) Authorize(actorID string, note *models.Note) error {
	if note == nil || actorID == "" || note.OwnerID != actorID {
		return ErrForbidden
	}
	return nil
}

// PolicyByName maps a configuration value ("open" or "owner") to a policy.
func PolicyByName(name string) (NoteAccessPolicy, error) {
	switch name {
	case "", "open":
		return OpenAccess{}, nil
	case "owner":
		return OwnerOnly{}, nil
	default:
		return nil, fmt.Errorf("unknown note access policy %q", name)
	}
}
