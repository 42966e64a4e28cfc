package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"notes/internal/content"
	"notes/internal/models"
	"notes/internal/repositories"
	"notes/internal/sharetoken"

	"github.com/rs/zerolog/log"
)

// maxShareAttempts bounds token regeneration after a unique-index collision.
const maxShareAttempts = 3

// NoteService handles business logic related to notes: content validation,
// share token issuance and persistence.
type NoteService struct {
	repo      repositories.NoteRepository
	publisher EventPublisher
	newToken  func() (string, error)
}

// NewNoteService creates a new NoteService. publisher may be nil.
func NewNoteService(repo repositories.NoteRepository, publisher EventPublisher) *NoteService {
	return &NoteService{
		repo:      repo,
		publisher: publisher,
		newToken:  sharetoken.Generate,
	}
}

// Create validates delta and stores a new, unshared note owned by ownerID.
func (s *NoteService) Create(ctx context.Context, ownerID, title, delta string) (*models.Note, error) {
	if err := validateNote(title, delta); err != nil {
		return nil, err
	}

	note := &models.Note{
		OwnerID: ownerID,
		Title:   title,
		Content: delta,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("owner %s: %w", ownerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Info().Str("note_id", note.ID).Str("owner_id", ownerID).Int("bytes", len(delta)).Msg("note created")
	s.publish(EventNoteCreated, note)
	return note, nil
}

// GetByID returns the note or nil when it does not exist.
func (s *NoteService) GetByID(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ListForOwner returns the owner's notes, most recently modified first.
func (s *NoteService) ListForOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// CountForOwner returns the number of notes ownerID has.
func (s *NoteService) CountForOwner(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.CountByOwner(ctx, ownerID)
}

// Update re-validates the whole document and overwrites title and content.
func (s *NoteService) Update(ctx context.Context, id, title, delta string) (*models.Note, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.mapNotFound(id, err)
	}
	if err := validateNote(title, delta); err != nil {
		return nil, err
	}

	note, err := s.repo.UpdateContent(ctx, id, title, delta)
	if err != nil {
		return nil, s.mapNotFound(id, err)
	}

	log.Info().Str("note_id", id).Int("bytes", len(delta)).Msg("note updated")
	s.publish(EventNoteUpdated, note)
	return note, nil
}

// Delete removes the note permanently.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapNotFound(id, err)
	}

	log.Info().Str("note_id", id).Msg("note deleted")
	s.publish(EventNoteDeleted, &models.Note{ID: id})
	return nil
}

// Share issues a fresh share token, replacing any previous one, and returns it.
func (s *NoteService) Share(ctx context.Context, id string) (string, error) {
	for attempt := 1; attempt <= maxShareAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate share token: %w", err)
		}

		note, err := s.repo.SetSharing(ctx, id, &token)
		switch {
		case err == nil:
			log.Info().Str("note_id", id).Msg("note shared")
			s.publish(EventNoteShared, note)
			return token, nil
		case errors.Is(err, repositories.ErrDuplicateKey):
			log.Warn().Str("note_id", id).Int("attempt", attempt).Msg("share token collision, regenerating")
		default:
			return "", s.mapNotFound(id, err)
		}
	}
	return "", fmt.Errorf("failed to share note %s: no unique token after %d attempts", id, maxShareAttempts)
}

// Unshare revokes the public link and clears the token.
func (s *NoteService) Unshare(ctx context.Context, id string) error {
	note, err := s.repo.SetSharing(ctx, id, nil)
	if err != nil {
		return s.mapNotFound(id, err)
	}

	log.Info().Str("note_id", id).Msg("note unshared")
	s.publish(EventNoteUnshared, note)
	return nil
}

// GetByToken returns the currently shared note with this token, or nil.
// A revoked or replaced token never resolves.
func (s *NoteService) GetByToken(ctx context.Context, token string) (*models.Note, error) {
	if token == "" {
		return nil, nil
	}
	note, err := s.repo.GetByShareToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// validateNote checks everything a write will store, so a rejected note never
// reaches the database.
func validateNote(title, delta string) error {
	if !utf8.ValidString(title) || utf8.RuneCountInString(title) > models.MaxTitleLength {
		return ErrInvalidTitle
	}
	return content.Validate(delta)
}

func (s *NoteService) mapNotFound(id string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	return err
}

func (s *NoteService) publish(kind string, note *models.Note) {
	publishEvent(s.publisher, NoteEvent{
		Type:       kind,
		NoteID:     note.ID,
		OwnerID:    note.OwnerID,
		IsShared:   note.IsShared,
		OccurredAt: time.Now().UTC(),
	})
}
