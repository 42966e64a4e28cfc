package handlers

import (
	"time"

	"notes/internal/content"
	"notes/internal/services"
	"notes/internal/sharetoken"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler serves shared notes to anyone holding the link.
type PublicHandler struct {
	notes *services.NoteService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(notes *services.NoteService) *PublicHandler {
	return &PublicHandler{notes: notes}
}

// RegisterRoutes registers the public share route.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/p/:token", h.HandleViewShared)
}

// SharedNoteView is the read-only projection of a shared note. It omits the
// owner and the token.
type SharedNoteView struct {
	Title     string    `json:"title"`
	Delta     string    `json:"delta"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleViewShared renders the note currently shared under :token.
func (h *PublicHandler) HandleViewShared(c *fiber.Ctx) error {
	token := c.Params("token")
	if !sharetoken.Valid(token) {
		return respondError(c, services.ErrNotFound, "Shared note not found")
	}

	note, err := h.notes.GetByToken(c.UserContext(), token)
	if err != nil {
		return respondError(c, err, "Could not retrieve shared note")
	}
	if note == nil {
		return respondError(c, services.ErrNotFound, "Shared note not found")
	}

	return c.JSON(SharedNoteView{
		Title:     note.Title,
		Delta:     note.Content,
		Text:      content.PlainText(note.Content),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	})
}
