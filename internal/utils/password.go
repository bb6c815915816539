package utils

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes of its input; longer inputs are
// rejected instead of silently truncated.
const maxPasswordBytes = 72

// PasswordSpecialChars lists the characters that satisfy the "special
// character" rule of the password policy.
const PasswordSpecialChars = "!@#$%^&*"

// Password policy bounds, counted in characters.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 16
)

var (
	// ErrInputTooLarge is returned when a plaintext exceeds bcrypt's limit.
	ErrInputTooLarge = errors.New("password exceeds 72 bytes")

	ErrPasswordLength    = errors.New("password must be 8-16 characters long")
	ErrPasswordUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordSpecial   = errors.New("password must contain at least one special character (" + PasswordSpecialChars + ")")
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", ErrInputTooLarge
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInputTooLarge
		}
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword enforces the account password policy: 8-16 characters,
// at least one uppercase letter and at least one of PasswordSpecialChars.
// The first violated rule is returned.
func ValidatePassword(plain string) error {
	if n := utf8.RuneCountInString(plain); n < MinPasswordLen || n > MaxPasswordLen {
		return ErrPasswordLength
	}
	if !strings.ContainsFunc(plain, unicode.IsUpper) {
		return ErrPasswordUppercase
	}
	if !strings.ContainsAny(plain, PasswordSpecialChars) {
		return ErrPasswordSpecial
	}
	return nil
}
