package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
	"github.com/esop/appliance-portal/internal/pkg/password"
)

// UserService implements the account-management operations. Role gating
// happens at the transport layer; the service enforces the invariants that
// hold regardless of who calls (uniqueness, self-delete, current-password
// verification).
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Register creates a new active account. Duplicate username is checked
// before duplicate email; both pre-checks are a fast path; the store's
// unique indexes remain the authoritative guard under concurrency.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update: nil fields in the payload are left
// untouched. A new email is re-checked for uniqueness against all other
// users, excluding the target itself.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		other, err := s.repo.FindByEmail(ctx, *in.Email)
		if err == nil && other.ID != id {
			return nil, domain.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("id", id).Msg("user updated")
	return user, nil
}

// Delete hard-deletes the user with the given id. An admin deleting their
// own account is rejected regardless of role.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.ID == actorID {
		return domain.ErrSelfDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("id", id).Str("username", user.Username).Msg("user deleted")
	return nil
}

// ResetOwnPassword changes user's password after verifying the current one.
// On a mismatch the stored hash is left untouched.
func (s *UserService) ResetOwnPassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if !password.Verify(currentPassword, user.PasswordHash) {
		s.log.Info().Str("username", user.Username).Msg("self password reset rejected: wrong current password")
		return domain.ErrPasswordMismatch
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("password changed")
	return nil
}

// ResetPassword sets a new password for another user without requiring the
// current one.
func (s *UserService) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("password reset by admin")
	return nil
}
