package models

import "time"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID          string    `json:"id"`
	GitHubID    string    `json:"-"` // empty for users created via registration
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Country     string    `json:"country,omitempty"`
	AvatarURL   string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterInput is the JSON body for POST /api/users.
type RegisterInput struct {
	Username    string `json:"username"    validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
}

// ProfileUpdateInput is the JSON body for PUT /api/users/profile. Only these
// fields are writable; anything else in the payload is dropped on decode.
// Pointers distinguish "not submitted" from "set to empty".
type ProfileUpdateInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Country *string `json:"country"`
	Avatar  *string `json:"avatar"  validate:"omitempty,uri"`
}

// GitHubUser is the subset of the GitHub /user response we keep.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}
