package api

import "github.com/farmlingo/farmlingo/internal/client/models"

// SyncUserRequest is the payload pushed to the user-sync endpoint. ID is the
// identity-provider user id; Email is required, the rest is optional.
type SyncUserRequest struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *userDTO `json:"data"`
}

// userDTO mirrors the backend's snake_case user representation.
type userDTO struct {
	UserID      string `json:"user_id"`
	ClerkUserID string `json:"clerk_user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// toModel maps the wire representation one-to-one to the client model.
func (d *userDTO) toModel() *models.User {
	return &models.User{
		UserID:      d.UserID,
		ClerkUserID: d.ClerkUserID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		ImageURL:    d.ImageURL,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
