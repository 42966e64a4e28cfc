package handlers

import (
	"errors"
	"fmt"
	"testing"

	"notes/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("note n1: %w", services.ErrNotFound), fiber.StatusNotFound},
		{services.ErrMalformedContent, fiber.StatusBadRequest},
		{services.ErrInvalidTitle, fiber.StatusBadRequest},
		{services.ErrInvalidEmail, fiber.StatusBadRequest},
		{services.ErrWeakPassword, fiber.StatusBadRequest},
		{services.ErrContentTooLarge, fiber.StatusRequestEntityTooLarge},
		{services.ErrDuplicateEmail, fiber.StatusConflict},
		{services.ErrWrongPassword, fiber.StatusUnauthorized},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrForbidden, fiber.StatusForbidden},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
