package repository

import "strings"

// Sort is a validated ORDER BY clause. Column is always taken from
// one of the allow-list maps below, never from caller input.
type Sort struct {
	Column string
	Desc   bool
}

// orderBy renders the clause with tie as a deterministic tie-breaker.
func (s Sort) orderBy(tie string) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	clause := "ORDER BY " + s.Column + " " + dir
	if tie != "" && tie != s.Column {
		clause += ", " + tie + " ASC"
	}
	return clause
}

var userSortColumns = map[string]string{
	"id":      "u.id",
	"name":    "u.name",
	"email":   "u.email",
	"address": "u.address",
	"role":    "u.role",
}

var storeSortColumns = map[string]string{
	"id":             "s.id",
	"name":           "s.name",
	"email":          "s.email",
	"address":        "s.address",
	"average_rating": "average_rating",
}

// ParseUserSort validates sortBy/order for the admin user listing. Empty
// values default to id ascending.
func ParseUserSort(sortBy, order string) (Sort, error) {
	return parseSort(userSortColumns, sortBy, order, "id")
}

// ParseStoreSort validates sortBy/order for store listings. Empty values
// default to name ascending.
func ParseStoreSort(sortBy, order string) (Sort, error) {
	return parseSort(storeSortColumns, sortBy, order, "name")
}

func parseSort(columns map[string]string, sortBy, order, def string) (Sort, error) {
	key := strings.TrimSpace(sortBy)
	if key == "" {
		key = def
	}
	col, ok := columns[key]
	if !ok {
		return Sort{}, ErrInvalidSort
	}
	var desc bool
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return Sort{}, ErrInvalidSort
	}
	return Sort{Column: col, Desc: desc}, nil
}
