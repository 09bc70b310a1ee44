package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/auth"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/repository"
)

// In-memory fakes for the repository interfaces. Fakes rather than a mock
// framework: the behavior is visible right here, and the service tests
// stay free of SQL.

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.nextID++
	now := time.Now().UTC()
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindOne(ctx context.Context, field repository.UserField, value string) (*model.User, error) {
	for _, u := range f.users {
		var match bool
		switch field {
		case repository.UserFieldUsername:
			match = u.Username == value
		case repository.UserFieldEmail:
			match = u.Email == value
		case repository.UserFieldCPF:
			match = u.CPF == value
		}
		if match {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", "")
}

func (f *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", "")
}

func (f *fakeUserRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

type fakeRoleRepo struct {
	roles  map[string]*model.Role
	nextID int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*model.Role)}
}

var _ repository.RoleRepository = (*fakeRoleRepo)(nil)

func (f *fakeRoleRepo) Create(ctx context.Context, role *model.Role) error {
	f.nextID++
	now := time.Now().UTC()
	role.ID = fmt.Sprintf("role-%d", f.nextID)
	role.CreatedAt = now
	role.UpdatedAt = now
	copied := *role
	f.roles[role.ID] = &copied
	return nil
}

func (f *fakeRoleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, apperror.NotFound("role", id)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoleRepo) FindOne(ctx context.Context, field repository.RoleField, value string) (*model.Role, error) {
	for _, r := range f.roles {
		if field == repository.RoleFieldName && r.Name == value {
			copied := *r
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("role", "")
}

func (f *fakeRoleRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Role, error) {
	var out []model.Role
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoleRepo) Update(ctx context.Context, role *model.Role) error {
	if _, ok := f.roles[role.ID]; !ok {
		return apperror.NotFound("role", role.ID)
	}
	copied := *role
	f.roles[role.ID] = &copied
	return nil
}

func (f *fakeRoleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.roles[id]; !ok {
		return apperror.NotFound("role", id)
	}
	delete(f.roles, id)
	return nil
}

// testLogger discards everything below error level.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testPasswords uses bcrypt cost 4, the minimum, to keep tests fast.
func testPasswords() *auth.PasswordManager {
	return auth.NewPasswordManagerForTest(4)
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserRepo, *fakeRoleRepo) {
	t.Helper()
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	return NewUserService(users, roles, testPasswords(), testLogger()), users, roles
}
