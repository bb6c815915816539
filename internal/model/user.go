package model

import "time"

// User represents an account as stored in the `users` table.  The
// password hash never leaves the server, so it is excluded from JSON.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name (20–60 characters for self-registration).
//  Email        – unique, lower-cased login identifier.
//  PasswordHash – bcrypt hash of the password.
//  Address      – postal address (up to 400 characters).
//  Role         – one of admin, store_owner, user.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
