package repositories

import (
	"context"
	"fmt"

	"notes/internal/models"

	"gorm.io/gorm"
)

// GORMNoteRepository is a GORM implementation of NoteRepository.
type GORMNoteRepository struct {
	db *gorm.DB
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(db *gorm.DB) *GORMNoteRepository {
	return &GORMNoteRepository{
		db: db,
	}
}

// Create inserts a new note. ID and timestamps are filled in on the passed struct.
func (r *GORMNoteRepository) Create(ctx context.Context, note *models.Note) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single note by its ID.
func (r *GORMNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get note by ID %s: %w", id, translate(err))
	}
	return &note, nil
}

// GetByShareToken retrieves a shared note by its public token.
func (r *GORMNoteRepository) GetByShareToken(ctx context.Context, token string) (*models.Note, error) {
	var note models.Note
	err := r.db.WithContext(ctx).
		Where("share_token = ? AND is_shared = ?", token, true).
		First(&note).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get note by share token: %w", translate(err))
	}
	return &note, nil
}

// ListByOwner retrieves all notes of an owner ordered by update time descending.
func (r *GORMNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for owner %s: %w", ownerID, err)
	}
	return notes, nil
}

// CountByOwner returns how many notes an owner has.
func (r *GORMNoteRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Note{}).Where("owner_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notes for owner %s: %w", ownerID, err)
	}
	return count, nil
}

// UpdateContent overwrites title and content and returns the stored note.
func (r *GORMNoteRepository) UpdateContent(ctx context.Context, id, title, content string) (*models.Note, error) {
	return r.update(ctx, id, map[string]interface{}{
		"title":   title,
		"content": content,
	})
}

// SetSharing stores the sharing state. A nil token clears the share.
func (r *GORMNoteRepository) SetSharing(ctx context.Context, id string, token *string) (*models.Note, error) {
	return r.update(ctx, id, map[string]interface{}{
		"is_shared":   token != nil,
		"share_token": token,
	})
}

// update applies fields and reloads the row inside one transaction.
func (r *GORMNoteRepository) update(ctx context.Context, id string, fields map[string]interface{}) (*models.Note, error) {
	var note models.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields["updated_at"] = tx.NowFunc()
		res := tx.Model(&models.Note{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return translate(tx.First(&note, "id = ?", id).Error)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update note %s: %w", id, err)
	}
	return &note, nil
}

// Delete hard-deletes a note by its ID.
func (r *GORMNoteRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Note{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
