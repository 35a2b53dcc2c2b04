// Package subscription exposes the subscription CRUD endpoints. Reads
// return the category reference expanded to the embedded document.
package subscription

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/models"
	"github.com/ayush/subtrack/internal/validate"
)

// Store defines the interface for subscription persistence.
type Store interface {
	FindAll(ctx context.Context) ([]models.Subscription, error)
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) (string, error)
	UpdateByID(ctx context.Context, id string, fields bson.M) error
	DeleteByID(ctx context.Context, id string) error
}

// Handler holds subscription HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the subscription endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns all subscriptions with their categories embedded, [] when
// none exist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.FindAll(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	api.JSON(w, http.StatusOK, subs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, sub)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.decode(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	catID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		api.Error(w, apperr.New(apperr.Validation, "Invalid category ID"))
		return
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	id, err := h.store.Create(r.Context(), &models.Subscription{
		Name:        in.Name,
		Price:       *in.Price,
		Duration:    in.Duration,
		CategoryID:  catID,
		Description: in.Description,
		IsActive:    isActive,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	// Re-fetch so the response carries the expanded category.
	sub, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, sub)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := h.decode(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	catID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		api.Error(w, apperr.New(apperr.Validation, "Invalid category ID"))
		return
	}

	fields := bson.M{
		"name":        in.Name,
		"price":       *in.Price,
		"duration":    in.Duration,
		"category_id": catID,
		"description": in.Description,
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	id := chi.URLParam(r, "id")
	if err := h.store.UpdateByID(r.Context(), id, fields); err != nil {
		api.Error(w, err)
		return
	}

	sub, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, sub)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"message": "Subscription deleted"})
}

func (h *Handler) decode(r *http.Request) (models.SubscriptionInput, error) {
	var in models.SubscriptionInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		return in, err
	}
	if err := validate.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}
