package ports

import (
	"context"

	"github.com/esop/appliance-portal/internal/core/domain"
)

// AuthService authenticates credentials and issues bearer tokens.
type AuthService interface {
	// Authenticate resolves a username/password pair to an active user.
	// Unknown user, wrong password, and deactivated account all fail with
	// domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// Login authenticates and returns a signed access token for the user.
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenVerifier resolves a bearer token to the subject username. Implemented
// by the token issuer; declared here so middleware depends on the port, not
// the signing implementation.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}
