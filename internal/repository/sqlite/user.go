package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/identity-service/internal/apperror"
	"github.com/sakif/identity-service/internal/model"
	"github.com/sakif/identity-service/internal/repository"
)

// UserStore implements repository.UserRepository on SQLite.
type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, name, username, email, password_hash, cpf, birthday, role_id, created_at, updated_at`

// Create inserts a new user, generating its ID and timestamps.
//
// The record is modified in place so the caller gets the generated fields
// back, mirroring what an ORM's refresh-after-commit would do.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CPF,
		user.Birthday,
		nullable(user.RoleID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}
	return nil
}

// GetByID retrieves a user by primary key.
// Returns an apperror.ErrNotFound-classified error when no row matches.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.queryOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// FindOne retrieves the single user whose field equals value. The field
// enum maps to a fixed column, so no caller input is interpolated into
// the query. Matching is exact and case-sensitive (BINARY collation).
func (s *UserStore) FindOne(ctx context.Context, field repository.UserField, value string) (*model.User, error) {
	var column string
	switch field {
	case repository.UserFieldUsername:
		column = "username"
	case repository.UserFieldEmail:
		column = "email"
	case repository.UserFieldCPF:
		column = "cpf"
	default:
		return nil, fmt.Errorf("sqlite: unknown user field %q", field)
	}
	return s.queryOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
}

// FindByUsernameOrEmail retrieves the user whose username or email equals
// identifier. Used by the login path.
func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	return s.queryOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		identifier, identifier)
}

// List returns users ordered by creation time.
func (s *UserStore) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY created_at, id LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}
	return users, nil
}

// Update writes every mutable column of the record. The caller has already
// decided that something changed and bumped UpdatedAt.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, username = ?, email = ?, password_hash = ?,
		     birthday = ?, role_id = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Birthday,
		nullable(user.RoleID),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// Delete hard-deletes the user. Deleting an absent ID is a not-found.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

func (s *UserStore) queryOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx, query, args...)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", "")
		}
		return nil, fmt.Errorf("sqlite: querying user: %w", err)
	}
	return u, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	var roleID sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CPF,
		&u.Birthday,
		&roleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		u.RoleID = &roleID.String
	}
	return &u, nil
}

// nullable converts an optional string into its SQL representation.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
