package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/repository"
)

// RoleService owns the role lifecycle. Name is the sole unique field.
type RoleService struct {
	roles  repository.RoleRepository
	logger *slog.Logger
}

func NewRoleService(roles repository.RoleRepository, logger *slog.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput is a partial update: nil leaves the field alone.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// Create persists a new role after checking the name is unused.
func (s *RoleService) Create(ctx context.Context, in CreateRoleInput) (*model.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "role name is required")
	}

	if err := s.checkDuplicateName(ctx, name, ""); err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        name,
		Description: in.Description,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("service/role: creating role %s: %w", name, err)
	}

	s.logger.Info("created role", slog.String("roleID", role.ID), slog.String("name", role.Name))
	return role, nil
}

// Update applies a partial update. A name change re-checks uniqueness
// excluding the record itself. UpdatedAt is only touched, and the row only
// written, when a value actually differs.
func (s *RoleService) Update(ctx context.Context, existing *model.Role, in UpdateRoleInput) (*model.Role, error) {
	updated := *existing
	changed := false

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != existing.Name {
			if name == "" {
				return nil, apperror.ValidationFailed("name", "role name is required")
			}
			if err := s.checkDuplicateName(ctx, name, existing.ID); err != nil {
				return nil, err
			}
			updated.Name = name
			changed = true
		}
	}

	if in.Description != nil && *in.Description != existing.Description {
		updated.Description = *in.Description
		changed = true
	}

	if !changed {
		return existing, nil
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.roles.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("service/role: updating role %s: %w", existing.ID, err)
	}

	s.logger.Info("updated role", slog.String("roleID", updated.ID))
	return &updated, nil
}

// Delete hard-deletes the role unconditionally. Users still referencing
// it have their role_id nullified by the schema, so a later create or
// update naming the deleted id fails with RoleNotFound.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/role: deleting role %s: %w", id, err)
	}
	s.logger.Info("deleted role", slog.String("roleID", id))
	return nil
}

// Get returns the role with the given id.
func (s *RoleService) Get(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/role: fetching role %s: %w", id, err)
	}
	return role, nil
}

// GetByName returns the role with the given name (exact match).
func (s *RoleService) GetByName(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.roles.FindOne(ctx, repository.RoleFieldName, name)
	if err != nil {
		return nil, fmt.Errorf("service/role: fetching role by name: %w", err)
	}
	return role, nil
}

// List returns roles with the given pagination, clamping the limit.
func (s *RoleService) List(ctx context.Context, offset, limit int) ([]model.Role, error) {
	roles, err := s.roles.List(ctx, normalizeList(offset, limit))
	if err != nil {
		return nil, fmt.Errorf("service/role: listing roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) checkDuplicateName(ctx context.Context, name, selfID string) error {
	found, err := s.roles.FindOne(ctx, repository.RoleFieldName, name)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service/role: checking name uniqueness: %w", err)
	}
	if found.ID == selfID {
		return nil
	}
	s.logger.Warn("duplicate role name", slog.String("name", name))
	return apperror.DuplicateField("name")
}
