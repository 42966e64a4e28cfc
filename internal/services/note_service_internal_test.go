package services

import (
	"context"
	"testing"

	"notes/internal/models"
	"notes/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collidingRepo rejects the first n tokens as duplicates.
type collidingRepo struct {
	repositories.NoteRepository
	collisions int
	seen       []string
}

func (r *collidingRepo) SetSharing(_ context.Context, id string, token *string) (*models.Note, error) {
	r.seen = append(r.seen, *token)
	if len(r.seen) <= r.collisions {
		return nil, repositories.ErrDuplicateKey
	}
	return &models.Note{ID: id, IsShared: true, ShareToken: token}, nil
}

func sequentialTokens() func() (string, error) {
	tokens := []string{"token-a", "token-b", "token-c", "token-d"}
	i := 0
	return func() (string, error) {
		t := tokens[i]
		i++
		return t, nil
	}
}

func TestShare_RegeneratesOnCollision(t *testing.T) {
	repo := &collidingRepo{collisions: 2}
	s := NewNoteService(repo, nil)
	s.newToken = sequentialTokens()

	token, err := s.Share(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "token-c", token)
	assert.Equal(t, []string{"token-a", "token-b", "token-c"}, repo.seen)
}

func TestShare_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := &collidingRepo{collisions: maxShareAttempts}
	s := NewNoteService(repo, nil)
	s.newToken = sequentialTokens()

	_, err := s.Share(context.Background(), "note-1")
	assert.Error(t, err)
	assert.Len(t, repo.seen, maxShareAttempts)
}
