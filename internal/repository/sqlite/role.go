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

// RoleStore implements repository.RoleRepository on SQLite.
type RoleStore struct {
	conn *sql.DB
}

var _ repository.RoleRepository = (*RoleStore)(nil)

const roleColumns = `id, name, description, created_at, updated_at`

// Create inserts a new role, generating its ID and timestamps.
func (s *RoleStore) Create(ctx context.Context, role *model.Role) error {
	now := time.Now().UTC()
	role.ID = uuid.NewString()
	role.CreatedAt = now
	role.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO roles (`+roleColumns+`) VALUES (?, ?, ?, ?, ?)`,
		role.ID,
		role.Name,
		role.Description,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting role %s: %w", role.Name, err)
	}
	return nil
}

func (s *RoleStore) GetByID(ctx context.Context, id string) (*model.Role, error) {
	return s.queryOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
}

// FindOne retrieves the single role whose field equals value.
func (s *RoleStore) FindOne(ctx context.Context, field repository.RoleField, value string) (*model.Role, error) {
	switch field {
	case repository.RoleFieldName:
		return s.queryOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = ?`, value)
	default:
		return nil, fmt.Errorf("sqlite: unknown role field %q", field)
	}
}

func (s *RoleStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Role, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles
		 ORDER BY created_at, id LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing roles: %w", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var r model.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning role row: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating role rows: %w", err)
	}
	return roles, nil
}

func (s *RoleStore) Update(ctx context.Context, role *model.Role) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		role.Name,
		role.Description,
		role.UpdatedAt,
		role.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating role %s: %w", role.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("role", role.ID)
	}
	return nil
}

// Delete hard-deletes the role. Users referencing it keep existing; the
// schema's ON DELETE SET NULL clears their role_id.
func (s *RoleStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting role %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("role", id)
	}
	return nil
}

func (s *RoleStore) queryOne(ctx context.Context, query string, args ...any) (*model.Role, error) {
	var r model.Role
	err := s.conn.QueryRowContext(ctx, query, args...).
		Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("role", "")
		}
		return nil, fmt.Errorf("sqlite: querying role: %w", err)
	}
	return &r, nil
}
