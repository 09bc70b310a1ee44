// Package repository declares the persistence contracts consumed by the
// service layer.
//
// Single-record lookups beyond the primary key go through FindOne with an
// explicit enum of queryable fields per entity. The enum replaces
// free-form attribute filtering: a repository implementation switches on
// the field constant to pick the indexed column, so no caller-supplied
// string ever reaches a query.
package repository

import (
	"context"

	"github.com/sakif/identity-service/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserField enumerates the unique, indexed user attributes FindOne can
// query. Lookups are exact-match and case-sensitive.
type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
	UserFieldCPF      UserField = "cpf"
)

// RoleField enumerates the queryable role attributes.
type RoleField string

const (
	RoleFieldName RoleField = "name"
)

// UserRepository persists user records.
//
// Create and Update receive a fully-populated record and write it as-is;
// ID generation and timestamps are the repository's concern on Create.
// Lookup methods return apperror.ErrNotFound-classified errors when no
// row matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	FindOne(ctx context.Context, field UserField, value string) (*model.User, error)
	// FindByUsernameOrEmail is the login lookup: a single exact match on
	// either unique column.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository persists role records.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id string) (*model.Role, error)
	FindOne(ctx context.Context, field RoleField, value string) (*model.Role, error)
	List(ctx context.Context, opts ListOptions) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id string) error
}
