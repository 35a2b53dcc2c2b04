// Package user exposes registration, the public user listing, and the
// authenticated profile endpoints.
package user

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/auth"
	"github.com/ayush/subtrack/internal/models"
	"github.com/ayush/subtrack/internal/validate"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// avatarPath is the URL recorded on the profile once an avatar is uploaded.
const avatarPath = "/api/users/profile/avatar"

// Store defines the interface for user persistence.
type Store interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Create(ctx context.Context, in models.RegisterInput) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, in models.ProfileUpdateInput) (*models.User, error)
}

// AvatarStore defines the interface for avatar object storage.
type AvatarStore interface {
	Put(ctx context.Context, userID string, data []byte, contentType string) error
	Get(ctx context.Context, userID string) ([]byte, string, error)
}

// Handler holds user HTTP handlers.
type Handler struct {
	store   Store
	avatars AvatarStore
}

func NewHandler(store Store, avatars AvatarStore) *Handler {
	return &Handler{store: store, avatars: avatars}
}

// Routes mounts the user endpoints on r. Registration and the user listing
// are public; profile endpoints sit behind requireAuth.
func (h *Handler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile", h.Profile)
		r.Put("/profile", h.UpdateProfile)
		r.Post("/profile/avatar", h.UploadAvatar)
		r.Get("/profile/avatar", h.DownloadAvatar)
	})
	r.Get("/{id}", h.Get)
}

// List returns all users, [] when none exist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.FindAll(r.Context())
	if err != nil {
		api.Error(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	api.JSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, u)
}

// Create registers a new user. The duplicate check and the insert are two
// separate store calls; the storage layer's unique constraints backstop the
// race between concurrent registrations with the same identity.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		api.Error(w, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		api.Error(w, err)
		return
	}

	existing, err := h.store.FindByUsernameOrEmail(r.Context(), in.Username, in.Email)
	if err != nil {
		api.Error(w, err)
		return
	}
	if existing != nil {
		api.Error(w, apperr.New(apperr.Conflict, "User with this email or username already exists"))
		return
	}

	u, err := h.store.Create(r.Context(), in)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, u)
}

// Profile returns the caller's own record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	u, err := h.store.FindByID(r.Context(), ident.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, u)
}

// UpdateProfile applies the writable profile fields. Fields outside the
// allow-list are dropped silently, not rejected.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	var in models.ProfileUpdateInput
	if err := validate.DecodeJSON(r.Body, &in); err != nil {
		api.Error(w, err)
		return
	}
	if err := validate.Struct(in); err != nil {
		api.Error(w, err)
		return
	}

	u, err := h.store.UpdateProfile(r.Context(), ident.UserID, in)
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, u)
}

// UploadAvatar stores the request body as the caller's avatar and records
// its serving URL on the profile.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		api.Error(w, apperr.Wrap(apperr.Validation, "Avatar exceeds the 5MB limit", err))
		return
	}
	if len(data) == 0 {
		api.Error(w, apperr.New(apperr.Validation, "Avatar image is required"))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		api.Error(w, apperr.New(apperr.Validation, "Avatar must be an image"))
		return
	}

	if err := h.avatars.Put(r.Context(), ident.UserID, data, contentType); err != nil {
		api.Error(w, err)
		return
	}

	url := avatarPath
	u, err := h.store.UpdateProfile(r.Context(), ident.UserID, models.ProfileUpdateInput{Avatar: &url})
	if err != nil {
		api.Error(w, err)
		return
	}
	api.JSON(w, http.StatusOK, u)
}

// DownloadAvatar streams the caller's avatar.
func (h *Handler) DownloadAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Error(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	data, contentType, err := h.avatars.Get(r.Context(), ident.UserID)
	if err != nil {
		api.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
