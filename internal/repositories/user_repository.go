package repositories

import (
	"context"

	"notes/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// Delete removes the user together with all of their notes.
	Delete(ctx context.Context, id string) error
}
