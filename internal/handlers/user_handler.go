package handlers

import (
	"time"

	"notes/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users    *services.UserService
	notes    *services.NoteService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, notes *services.NoteService) *UserHandler {
	return &UserHandler{
		users:    users,
		notes:    notes,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id/password", h.HandleUpdatePassword)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// CreateUserRequest represents the request body for registration.
type CreateUserRequest struct {
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UserView is a user as returned by GET /users/:id.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	NoteCount int64     `json:"note_count"`
}

// HandleListUsers lists every user, newest first.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// HandleCreateUser registers a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if parseAndValidate(c, h.validate, &req) != nil {
		return nil
	}

	user, err := h.users.Create(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleGetUser retrieves a user with their note count.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	user, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve user")
	}
	if user == nil {
		return respondError(c, services.ErrNotFound, "User not found")
	}

	count, err := h.notes.CountForOwner(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve user")
	}
	return c.JSON(UserView{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		NoteCount: count,
	})
}

// HandleUpdatePassword changes a user's password after checking the current one.
func (h *UserHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if parseAndValidate(c, h.validate, &req) != nil {
		return nil
	}

	if err := h.users.UpdatePassword(c.UserContext(), c.Params("id"), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err, "Could not update password")
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// HandleDeleteUser deletes a user and all of their notes.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
