package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"notes/internal/models"
	"notes/internal/repositories"
	"notes/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Create(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, bcrypt.MinCost)

	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := service.Create(context.Background(), "  test@example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateRejections(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		existing *models.User
		want     error
	}{
		{"duplicate email", "taken@example.com", "password123", &models.User{ID: "u1"}, services.ErrDuplicateEmail},
		{"duplicate wins over weak password", "taken@example.com", "123", &models.User{ID: "u1"}, services.ErrDuplicateEmail},
		{"missing at sign", "not-an-email", "password123", nil, services.ErrInvalidEmail},
		{"blank email", "   ", "password123", nil, services.ErrInvalidEmail},
		{"short password", "new@example.com", "12345", nil, services.ErrWeakPassword},
		{"short multibyte password", "new@example.com", "ééééé", nil, services.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := services.NewUserService(mockRepo, bcrypt.MinCost)

			if tt.existing != nil {
				mockRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(tt.existing, nil).Once()
			} else {
				mockRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound).Once()
			}

			user, err := service.Create(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, user)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_CreateRaceOnUniqueIndex(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, bcrypt.MinCost)

	mockRepo.On("GetByEmail", mock.Anything, "race@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicateKey)).Once()

	_, err := service.Create(context.Background(), "race@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Authenticate(ctx, f.owner.Email, "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, f.owner.ID, user.ID)

	user, err = f.users.Authenticate(ctx, f.owner.Email, "wrong-password")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = f.users.Authenticate(ctx, "nobody@example.com", "password123")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserService_UpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.users.UpdatePassword(ctx, f.owner.ID, "wrong-password", "newpassword")
	assert.ErrorIs(t, err, services.ErrWrongPassword)

	// The current password is checked before the new one.
	err = f.users.UpdatePassword(ctx, f.owner.ID, "wrong-password", "123")
	assert.ErrorIs(t, err, services.ErrWrongPassword)

	err = f.users.UpdatePassword(ctx, f.owner.ID, "password123", "123")
	assert.ErrorIs(t, err, services.ErrWeakPassword)

	require.NoError(t, f.users.UpdatePassword(ctx, f.owner.ID, "password123", "newpassword"))

	user, err := f.users.Authenticate(ctx, f.owner.Email, "newpassword")
	require.NoError(t, err)
	assert.NotNil(t, user)

	user, err = f.users.Authenticate(ctx, f.owner.Email, "password123")
	require.NoError(t, err)
	assert.Nil(t, user)

	err = f.users.UpdatePassword(ctx, "missing", "password123", "newpassword")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserService_DuplicateEmailAgainstDatabase(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Create(context.Background(), f.owner.Email, "anotherpassword")
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestUserService_DeleteRemovesNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	note, err := f.notes.Create(ctx, f.owner.ID, "Shopping", shoppingDelta)
	require.NoError(t, err)
	token, err := f.notes.Share(ctx, note.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, f.owner.ID))

	user, err := f.users.GetByID(ctx, f.owner.ID)
	assert.NoError(t, err)
	assert.Nil(t, user)

	got, err := f.notes.GetByID(ctx, note.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	shared, err := f.notes.GetByToken(ctx, token)
	assert.NoError(t, err)
	assert.Nil(t, shared)

	assert.ErrorIs(t, f.users.Delete(ctx, f.owner.ID), services.ErrNotFound)
}

func TestUserService_ListAllNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	time.Sleep(5 * time.Millisecond)
	second, err := f.users.Create(ctx, "second@example.com", "password123")
	require.NoError(t, err)

	users, err := f.users.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, f.owner.ID, users[1].ID)
	for _, u := range users {
		assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"))
	}
}
