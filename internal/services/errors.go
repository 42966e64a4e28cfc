package services

import (
	"errors"

	"notes/internal/content"
)

// Error kinds returned by the services. Callers match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrMalformedContent = content.ErrMalformedContent
	ErrContentTooLarge  = content.ErrContentTooLarge
	ErrInvalidTitle     = errors.New("title must be valid UTF-8 of at most 200 characters")

	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
	ErrWrongPassword  = errors.New("current password is incorrect")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("note does not belong to user")
)
