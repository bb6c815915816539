// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. Driver failures are wrapped with context and
// surface as internal errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrStoreEmailExists = errors.New("store email already exists")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// ErrInvalidOwner is returned when a store is created for a user that does
// not exist or is not a store owner.
var ErrInvalidOwner = errors.New("owner must be an existing store owner")

// ErrInvalidSort is returned before any query runs when a caller asks for a
// sort key or direction outside the allow-list.
var ErrInvalidSort = errors.New("invalid sort parameters")

// MySQL server error numbers the repositories translate.
const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
	errCheckConstraint = 3819
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// likePattern wraps s for a substring LIKE match, escaping the wildcard
// characters so user input only ever matches literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
