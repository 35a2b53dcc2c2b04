// Package reminder exposes the owner-scoped reminder endpoints. Every
// operation requires an identity and only touches the caller's reminders.
package reminder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/auth"
	"github.com/ayush/subtrack/internal/models"
	"github.com/ayush/subtrack/internal/validate"
)

// Store defines the interface for reminder persistence.
type Store interface {
	FindAllByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	Create(ctx context.Context, rem *models.Reminder) (*models.Reminder, error)
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}

// Handler holds reminder HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the reminder endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}

// List returns the caller's reminders, [] when none exist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	rems, err := h.store.FindAllByUser(r.Context(), ident.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	if rems == nil {
		rems = []models.Reminder{}
	}
	api.JSON(w, http.StatusOK, rems)
}

// Create stores a new reminder for the caller. The owner is always the
// authenticated identity; a userId in the payload is ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	var in models.ReminderInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		api.Error(w, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		api.Error(w, err)
		return
	}

	rem, err := h.store.Create(r.Context(), &models.Reminder{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		UserID:      ident.UserID,
		Completed:   in.Completed,
	})
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, rem)
}

// Delete removes one of the caller's reminders. A reminder belonging to
// another user reports 404, same as an unknown id.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	if err := h.store.DeleteByIDAndUser(r.Context(), chi.URLParam(r, "id"), ident.UserID); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Reminder deleted"})
}
