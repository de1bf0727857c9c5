package ports

import (
	"context"

	"github.com/esop/appliance-portal/internal/core/domain"
)

// RegisterInput carries the fields needed to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateInput applies a partial update: nil fields are left untouched.
type UpdateInput struct {
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// UserService exposes the admin and self-service account operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.User, error)

	// Delete removes the user with the given id. actorID is the id of the
	// admin performing the call; deleting yourself is rejected.
	Delete(ctx context.Context, actorID, id int64) error

	// ResetOwnPassword verifies currentPassword against the user's stored
	// hash before accepting newPassword.
	ResetOwnPassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error

	// ResetPassword sets a new password for the user with the given id
	// without requiring the current one. Admin-gated at the transport layer.
	ResetPassword(ctx context.Context, id int64, newPassword string) error
}
