package api

import (
	"context"

	"github.com/farmlingo/farmlingo/internal/client/models"
)

// Client is the API contract the rest of the application codes against.
type Client interface {
	// SyncUser pushes identity-provider profile data to the backend and
	// returns the canonical profile.
	SyncUser(ctx context.Context, req SyncUserRequest) (*models.User, error)

	// CurrentUser fetches the canonical profile of the authenticated user.
	CurrentUser(ctx context.Context) (*models.User, error)

	Close() error
}
