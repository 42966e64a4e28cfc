package handlers

import (
	"encoding/json"
	"strings"

	"notes/internal/content"
	"notes/internal/middleware"
	"notes/internal/models"
	"notes/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NoteHandler handles HTTP requests for notes. Every route expects the
// authenticated user id set by middleware.AuthRequired.
type NoteHandler struct {
	service       *services.NoteService
	policy        services.NoteAccessPolicy
	publicBaseURL string
	validate      *validator.Validate
}

// NewNoteHandler creates a new NoteHandler. An empty publicBaseURL makes share
// links relative to the request's own base URL.
func NewNoteHandler(service *services.NoteService, policy services.NoteAccessPolicy, publicBaseURL string) *NoteHandler {
	if policy == nil {
		policy = services.OpenAccess{}
	}
	return &NoteHandler{
		service:       service,
		policy:        policy,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		validate:      newValidator(),
	}
}

// RegisterRoutes registers the note routes with the Fiber app.
func (h *NoteHandler) RegisterRoutes(router fiber.Router) {
	noteRoutes := router.Group("/notes")
	noteRoutes.Get("/", h.HandleListNotes)
	noteRoutes.Post("/", h.HandleCreateNote)
	noteRoutes.Get("/:id", h.HandleGetNote)
	noteRoutes.Put("/:id", h.HandleUpdateNote)
	noteRoutes.Delete("/:id", h.HandleDeleteNote)
	noteRoutes.Post("/:id/share", h.HandleShareNote)
	noteRoutes.Post("/:id/unshare", h.HandleUnshareNote)
}

// NoteRequest is the body of create and update. Delta carries a delta document
// stored as sent; Text is plain text wrapped into a single insert.
type NoteRequest struct {
	Title string          `json:"title" validate:"max=200"`
	Delta json.RawMessage `json:"delta"`
	Text  string          `json:"text"`
}

// document returns the delta to store, or "" when the request has no content.
func (r NoteRequest) document() (string, error) {
	raw := strings.TrimSpace(string(r.Delta))
	switch {
	case raw != "" && raw != "null":
		// A delta sent as a JSON string is unwrapped to the document it contains.
		if strings.HasPrefix(raw, `"`) {
			var s string
			if err := json.Unmarshal(r.Delta, &s); err != nil {
				return "", content.ErrMalformedContent
			}
			return s, nil
		}
		return raw, nil
	case strings.TrimSpace(r.Text) != "":
		return content.FromPlainText(strings.TrimSpace(r.Text))
	default:
		return "", nil
	}
}

// HandleListNotes lists the caller's notes, most recently modified first.
func (h *NoteHandler) HandleListNotes(c *fiber.Ctx) error {
	notes, err := h.service.ListForOwner(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve notes")
	}
	return c.JSON(notes)
}

// HandleCreateNote creates a note owned by the caller.
func (h *NoteHandler) HandleCreateNote(c *fiber.Ctx) error {
	var req NoteRequest
	if parseAndValidate(c, h.validate, &req) != nil {
		return nil
	}

	doc, err := req.document()
	if err != nil {
		return respondError(c, err, "Invalid note content")
	}
	if doc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Content is required",
		})
	}

	note, err := h.service.Create(c.UserContext(), middleware.UserID(c), req.Title, doc)
	if err != nil {
		return respondError(c, err, "Could not create note")
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleGetNote retrieves a single note by its ID.
func (h *NoteHandler) HandleGetNote(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return respondError(c, err, "Could not retrieve note")
	}
	return c.JSON(note)
}

// HandleUpdateNote replaces the title and content of a note.
func (h *NoteHandler) HandleUpdateNote(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return respondError(c, err, "Could not update note")
	}

	var req NoteRequest
	if parseAndValidate(c, h.validate, &req) != nil {
		return nil
	}
	doc, err := req.document()
	if err != nil {
		return respondError(c, err, "Invalid note content")
	}
	if doc == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Content is required",
		})
	}

	updated, err := h.service.Update(c.UserContext(), note.ID, req.Title, doc)
	if err != nil {
		return respondError(c, err, "Could not update note")
	}
	return c.JSON(updated)
}

// HandleDeleteNote deletes a note.
func (h *NoteHandler) HandleDeleteNote(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return respondError(c, err, "Could not delete note")
	}
	if err := h.service.Delete(c.UserContext(), note.ID); err != nil {
		return respondError(c, err, "Could not delete note")
	}
	return c.JSON(fiber.Map{
		"message": "Note deleted successfully",
	})
}

// HandleShareNote issues a new public link, invalidating any previous one.
func (h *NoteHandler) HandleShareNote(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return respondError(c, err, "Could not share note")
	}
	token, err := h.service.Share(c.UserContext(), note.ID)
	if err != nil {
		return respondError(c, err, "Could not share note")
	}

	base := h.publicBaseURL
	if base == "" {
		base = c.BaseURL()
	}
	return c.JSON(fiber.Map{
		"message":     "Note shared successfully",
		"share_token": token,
		"public_url":  base + "/p/" + token,
	})
}

// HandleUnshareNote revokes the public link.
func (h *NoteHandler) HandleUnshareNote(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return respondError(c, err, "Could not unshare note")
	}
	if err := h.service.Unshare(c.UserContext(), note.ID); err != nil {
		return respondError(c, err, "Could not unshare note")
	}
	return c.JSON(fiber.Map{
		"message": "Note is no longer shared",
	})
}

// authorizedNote loads the note named by the :id parameter and applies the
// access policy for the calling user.
func (h *NoteHandler) authorizedNote(c *fiber.Ctx) (*models.Note, error) {
	id := c.Params("id")
	note, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, services.ErrNotFound
	}
	if err := h.policy.Authorize(middleware.UserID(c), note); err != nil {
		log.Warn().Str("note_id", id).Str("user_id", middleware.UserID(c)).Msg("note access denied")
		return nil, err
	}
	return note, nil
}
