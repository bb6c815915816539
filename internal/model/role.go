package model

import (
	"errors"
	"strings"
)

// Role is the closed set of account roles.  The string values are what is
// stored in users.role and carried in the JWT "role" claim.
type Role string

const (
	RoleAdmin      Role = "admin"       // manages users and stores
	RoleStoreOwner Role = "store_owner" // views ratings of the store they own
	RoleUser       Role = "user"        // registers and rates stores
)

// ErrInvalidRole is returned by ParseRole for any value outside the enumeration.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a raw value into a Role.  Matching is case-insensitive
// and ignores surrounding whitespace; anything else yields ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreOwner, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
