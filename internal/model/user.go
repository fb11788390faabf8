// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// A user record is immutable after registration; there is no profile
// update flow.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
