// Package models defines the client-side view of Farmlingo domain data.
package models

// User is the canonical profile as the backend stores it, mapped to the
// client's field names. UserID and ClerkUserID are immutable for the lifetime
// of the record; Email is always populated once the record exists. Timestamps
// are ISO-8601 strings, server-authoritative.
type User struct {
	UserID      string `json:"userId"`
	ClerkUserID string `json:"clerkUserId"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// DisplayName returns the user's name for UI purposes, falling back to the
// email address when no name parts are present.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
