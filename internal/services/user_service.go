package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"notes/internal/models"
	"notes/internal/repositories"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// UserService handles business logic for user accounts.
type UserService struct {
	repo     repositories.UserRepository
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService creates a new UserService. A hashCost below bcrypt.MinCost
// selects bcrypt.DefaultCost.
func NewUserService(repo repositories.UserRepository, hashCost int) *UserService {
	return &UserService{
		repo:     repo,
		hashCost: hashCost,
	}
}

// Create registers a user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

// GetByID returns the user or nil when it does not exist.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// GetByEmail returns the user or nil when it does not exist.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// Authenticate returns the user when email and password match, nil otherwise.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// UpdatePassword replaces the password after verifying the current one.
func (s *UserService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return err
	}

	log.Info().Str("user_id", id).Msg("password updated")
	return nil
}

// Delete removes the user; their notes go with them.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return err
	}
	log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ListAll returns every user, newest first.
func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("notes-dummy-password"), s.hashCost)
	})
	return s.dummyHash
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
