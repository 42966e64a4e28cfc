package repositories

import (
	"context"

	"notes/internal/models"
)

// NoteRepository defines the interface for note data access.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// GetByShareToken only matches notes that are currently shared.
	GetByShareToken(ctx context.Context, token string) (*models.Note, error)
	// ListByOwner returns the owner's notes, most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	UpdateContent(ctx context.Context, id, title, content string) (*models.Note, error)
	// SetSharing shares the note under token, or unshares it when token is nil.
	SetSharing(ctx context.Context, id string, token *string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}
