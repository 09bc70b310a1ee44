package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/auth"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/repository"
)

// AuthService orchestrates the authentication flow: credential lookup and
// verification on login, token issuance, and token-to-user resolution on
// authenticated requests.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	passwords *auth.PasswordManager
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	passwords *auth.PasswordManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Authenticate verifies a credential pair and returns the account it
// belongs to. The identifier may be a username or an email.
//
// An unknown identifier and a wrong password fail identically, with the
// same error and the same log level, so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated()
		}
		return nil, fmt.Errorf("service/auth: looking up identifier: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, apperror.Unauthenticated()
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// IssueToken creates an access token for the user, with the user's id as
// subject and the username carried as an extra claim.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	token, err := s.tokens.CreateAccessToken(user.ID, 0, map[string]any{
		"username": user.Username,
	})
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}
	return token, nil
}

// ResolveCurrentUser decodes a bearer token and returns the user it
// asserts. Any decode failure, a missing subject claim, and a subject that
// no longer exists (a token outliving its account) are all reported as the
// same Unauthenticated error.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.DecodeToken(token)
	if err != nil {
		return nil, apperror.Unauthenticated()
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperror.Unauthenticated()
	}

	user, err := s.users.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated()
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", sub, err)
	}
	return user, nil
}
