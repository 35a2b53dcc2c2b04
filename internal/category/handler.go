// Package category exposes the category CRUD endpoints.
package category

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/models"
	"github.com/ayush/subtrack/internal/validate"
)

// Store defines the interface for category persistence.
type Store interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateByID(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error)
	DeleteByID(ctx context.Context, id string) error
}

// Handler holds category HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the category endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns all categories, [] when none exist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.FindAll(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	api.JSON(w, http.StatusOK, cats)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, cat)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		api.Error(w, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		api.Error(w, err)
		return
	}

	cat, err := h.store.Create(r.Context(), in)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, cat)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		api.Error(w, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		api.Error(w, err)
		return
	}

	cat, err := h.store.UpdateByID(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, cat)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
