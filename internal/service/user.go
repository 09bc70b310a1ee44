// Package service contains the business logic of the identity core.
//
// Services sit between the HTTP handlers and the repositories:
//
//	Handler (HTTP) → Service (domain rules) → Repository (SQL)
//
// They accept plain inputs, enforce the uniqueness and referential
// invariants, and return apperror-classified errors the handlers map to
// status codes. Nothing here knows about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/auth"
	"github.com/sakif/identity-service/internal/cpf"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/repository"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// UserService owns the user lifecycle: creation, partial update, deletion
// and lookups, with every invariant checked before anything is persisted.
type UserService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	passwords *auth.PasswordManager
	logger    *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	passwords *auth.PasswordManager,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		roles:     roles,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateUserInput carries the attributes of a new account. Password is
// plaintext here and nowhere else; it is hashed before it reaches a model.
type CreateUserInput struct {
	Name     string
	Username string
	Email    string
	Password string
	CPF      string
	Birthday time.Time
	RoleID   *string
}

// UpdateUserInput is a partial update: nil means "leave the field alone".
//
// CPF is present only so the service can reject any attempt to change it.
// A non-nil RoleID pointing at an empty string clears the role assignment.
type UpdateUserInput struct {
	Name     *string
	Username *string
	Email    *string
	Password *string
	CPF      *string
	Birthday *time.Time
	RoleID   *string
}

// Create validates and persists a new user.
//
// Checks run in a fixed order so the reported error is deterministic when
// several rules are violated at once: CPF checksum, then duplicate
// username, email and cpf (in that order), then role existence. Only
// after everything passes is the password hashed and the row written.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	cpfClean := cpf.Clean(in.CPF)
	if !cpf.IsValid(cpfClean) {
		s.logger.Warn("invalid cpf", slog.String("username", in.Username))
		return nil, apperror.InvalidNationalID()
	}

	if err := s.checkDuplicate(ctx, repository.UserFieldUsername, in.Username, ""); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, repository.UserFieldEmail, in.Email, ""); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, repository.UserFieldCPF, cpfClean, ""); err != nil {
		return nil, err
	}

	roleID, err := s.resolveRole(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CPF:          cpfClean,
		Birthday:     in.Birthday,
		RoleID:       roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user %s: %w", in.Username, err)
	}

	s.logger.Info("created user",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Update applies a partial update to an existing user.
//
// The CPF is immutable: providing it fails before anything else is looked
// at, whatever the other fields say. Username and email changes re-check
// uniqueness excluding the record's own id. The row (and UpdatedAt) is
// only written when at least one value actually differs; otherwise the
// call is a no-op returning the record unchanged.
func (s *UserService) Update(ctx context.Context, existing *model.User, in UpdateUserInput) (*model.User, error) {
	if in.CPF != nil {
		return nil, apperror.ImmutableField("cpf")
	}

	updated := *existing
	changed := false

	if in.Name != nil && strings.TrimSpace(*in.Name) != existing.Name {
		updated.Name = strings.TrimSpace(*in.Name)
		changed = true
	}

	if in.Username != nil && *in.Username != existing.Username {
		if err := s.checkDuplicate(ctx, repository.UserFieldUsername, *in.Username, existing.ID); err != nil {
			s.logger.Warn("duplicate username on update", slog.String("username", *in.Username))
			return nil, err
		}
		updated.Username = *in.Username
		changed = true
	}

	if in.Email != nil && *in.Email != existing.Email {
		if err := s.checkDuplicate(ctx, repository.UserFieldEmail, *in.Email, existing.ID); err != nil {
			return nil, err
		}
		updated.Email = *in.Email
		changed = true
	}

	if in.Password != nil && !s.passwords.Verify(*in.Password, existing.PasswordHash) {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
		changed = true
	}

	if in.Birthday != nil && !in.Birthday.Equal(existing.Birthday) {
		updated.Birthday = *in.Birthday
		changed = true
	}

	if in.RoleID != nil {
		switch {
		case *in.RoleID == "":
			if existing.RoleID != nil {
				updated.RoleID = nil
				changed = true
			}
		case existing.RoleID == nil || *existing.RoleID != *in.RoleID:
			roleID, err := s.resolveRole(ctx, in.RoleID)
			if err != nil {
				return nil, err
			}
			updated.RoleID = roleID
			changed = true
		}
	}

	if !changed {
		return existing, nil
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("service/user: updating user %s: %w", existing.ID, err)
	}

	s.logger.Info("updated user", slog.String("userID", updated.ID))
	return &updated, nil
}

// Delete hard-deletes the user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/user: deleting user %s: %w", id, err)
	}
	s.logger.Info("deleted user", slog.String("userID", id))
	return nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %s: %w", id, err)
	}
	return user, nil
}

// GetByUsername returns the user with the given username (exact match).
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindOne(ctx, repository.UserFieldUsername, username)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user by username: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email (exact match).
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindOne(ctx, repository.UserFieldEmail, email)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user by email: %w", err)
	}
	return user, nil
}

// GetByCPF returns the user with the given CPF. The value is cleaned to
// canonical digits-only form first, since that is what is stored.
func (s *UserService) GetByCPF(ctx context.Context, value string) (*model.User, error) {
	user, err := s.users.FindOne(ctx, repository.UserFieldCPF, cpf.Clean(value))
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user by cpf: %w", err)
	}
	return user, nil
}

// List returns users with the given pagination, clamping the limit.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	opts := normalizeList(offset, limit)
	s.logger.Info("listing users", slog.Int("offset", opts.Offset), slog.Int("limit", opts.Limit))
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("service/user: listing users: %w", err)
	}
	return users, nil
}

// checkDuplicate fails with DuplicateField when another record (excluding
// selfID) already holds value in the given unique field.
func (s *UserService) checkDuplicate(ctx context.Context, field repository.UserField, value, selfID string) error {
	found, err := s.users.FindOne(ctx, field, value)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service/user: checking %s uniqueness: %w", field, err)
	}
	if found.ID == selfID {
		return nil
	}
	s.logger.Warn("duplicate field", slog.String("field", string(field)))
	return apperror.DuplicateField(string(field))
}

// hashPassword hashes a plaintext password, reporting an over-long input
// as a field-level validation failure rather than an internal fault.
func (s *UserService) hashPassword(plaintext string) (string, error) {
	hash, err := s.passwords.Hash(plaintext)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
		}
		return "", fmt.Errorf("service/user: hashing password: %w", err)
	}
	return hash, nil
}

// resolveRole verifies a role reference at the moment of assignment.
// A nil or empty reference resolves to no role.
func (s *UserService) resolveRole(ctx context.Context, roleID *string) (*string, error) {
	if roleID == nil || *roleID == "" {
		return nil, nil
	}
	if _, err := s.roles.GetByID(ctx, *roleID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("role reference does not exist", slog.String("roleID", *roleID))
			return nil, apperror.RoleNotFound()
		}
		return nil, fmt.Errorf("service/user: resolving role %s: %w", *roleID, err)
	}
	id := *roleID
	return &id, nil
}

func normalizeList(offset, limit int) repository.ListOptions {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.ListOptions{Offset: offset, Limit: limit}
}
