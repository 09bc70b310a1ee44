package model

import "time"

// Role represents a named permission group users can be assigned to.
//
// The system only tracks the assignment; it makes no authorization
// decisions based on it.
type Role struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
