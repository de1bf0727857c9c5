package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
	"github.com/esop/appliance-portal/internal/pkg/password"
)

const (
	bootstrapUsername = "admin"
	bootstrapEmail    = "admin@esop.local"
)

// BootstrapAdmin creates the default admin account on first startup. It is
// idempotent: when a user named "admin" already exists nothing changes.
func BootstrapAdmin(ctx context.Context, repo ports.UserRepository, defaultPassword string, log zerolog.Logger) error {
	_, err := repo.FindByUsername(ctx, bootstrapUsername)
	if err == nil {
		log.Info().Msg("admin user already exists")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := password.Hash(defaultPassword)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, &domain.User{
		Username:     bootstrapUsername,
		Email:        bootstrapEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		// Lost a race with another instance bootstrapping the same store.
		if errors.Is(err, domain.ErrUsernameTaken) {
			log.Info().Msg("admin user already exists")
			return nil
		}
		return err
	}

	log.Info().Str("username", bootstrapUsername).Msg("default admin user created")
	return nil
}
