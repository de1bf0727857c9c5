package ports

import (
	"context"

	"github.com/esop/appliance-portal/internal/core/domain"
)

// UserRepository defines the interface for credential persistence. The
// storage layer owns uniqueness: Create and Update must surface
// domain.ErrUsernameTaken / domain.ErrEmailTaken when a unique constraint is
// violated, even if the caller's own pre-check raced and passed.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
