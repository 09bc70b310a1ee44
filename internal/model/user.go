// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents one account.
//
// Username, Email and CPF are each globally unique; the service layer
// checks them before writes and the UNIQUE constraints in the database
// are the authoritative backstop under concurrent writers.
//
// CPF is stored in digits-only canonical form and is immutable after
// creation. PasswordHash is only ever produced by auth.PasswordManager
// and is never serialized to clients (json:"-").
//
// RoleID is a *string because the role reference is optional. A nil
// pointer means "no role"; the column is nullable in the database and
// is set to NULL when the referenced role is deleted.
type User struct {
	ID           string     `json:"id"        db:"id"`
	Name         string     `json:"name"      db:"name"`
	Username     string     `json:"username"  db:"username"`
	Email        string     `json:"email"     db:"email"`
	PasswordHash string     `json:"-"         db:"password_hash"`
	CPF          string     `json:"cpf"       db:"cpf"`
	Birthday     time.Time  `json:"birthday"  db:"birthday"`
	RoleID       *string    `json:"roleId"    db:"role_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
