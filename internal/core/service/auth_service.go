package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/ports"
	"github.com/esop/appliance-portal/internal/pkg/password"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService implements password authentication and token issuance.
type AuthService struct {
	repo   ports.UserRepository
	issuer TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, log: log}
}

// Authenticate resolves a username/password pair to an active user. All
// failure paths return domain.ErrInvalidCredentials so the caller cannot
// tell an unknown username from a wrong password or a deactivated account;
// the log records which check failed.
func (s *AuthService) Authenticate(ctx context.Context, username, plaintext string) (*domain.User, error) {
	if username == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("username", username).Msg("login failed: unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		s.log.Info().Str("username", username).Msg("login failed: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Info().Str("username", username).Msg("login failed: account deactivated")
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, plaintext string) (string, error) {
	user, err := s.Authenticate(ctx, username, plaintext)
	if err != nil {
		return "", err
	}

	tok, err := s.issuer.Issue(user.Username)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Msg("login succeeded")
	return tok, nil
}
