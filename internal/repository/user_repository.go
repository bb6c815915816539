package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// UserFilter narrows the admin user listing. Text fields are substring
// matches; an empty Role matches every role.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    model.Role
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "u.id, u.name, u.email, u.password_hash, u.address, u.role, u.created_at, u.updated_at"

// NormalizeEmail is the canonical form stored in the email columns.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u and fills in its ID. u.PasswordHash must already be a
// bcrypt hash.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if !u.Role.Valid() {
		return model.ErrInvalidRole
	}
	u.Email = NormalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, address, role) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Address, string(u.Role))
	if err != nil {
		if mysqlErrNumber(err) == errDuplicateEntry {
			return ErrEmailExists
		}
		return errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "insert user: last id")
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u WHERE u.email = ? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u WHERE u.id = ? LIMIT 1", id)
	return scanUser(row)
}

// UpdatePassword replaces the stored hash for id.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hash, id)
	if err != nil {
		return errors.Wrap(err, "update password")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update password: rows affected")
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns users matching f ordered by s.
func (r *UserRepo) List(ctx context.Context, f UserFilter, s Sort) ([]model.User, error) {
	where := []string{}
	args := []any{}
	if f.Name != "" {
		where = append(where, "u.name LIKE ?")
		args = append(args, likePattern(f.Name))
	}
	if f.Email != "" {
		where = append(where, "u.email LIKE ?")
		args = append(args, likePattern(f.Email))
	}
	if f.Address != "" {
		where = append(where, "u.address LIKE ?")
		args = append(args, likePattern(f.Address))
	}
	if f.Role != "" {
		where = append(where, "u.role = ?")
		args = append(args, string(f.Role))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users u WHERE "+cond+" "+s.orderBy("u.id"), args...)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, errors.Wrap(rows.Err(), "list users")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(rs rowScanner) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := rs.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Address, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "scan user")
	}
	if u.Role, err = model.ParseRole(role); err != nil {
		return nil, errors.Wrapf(err, "user %d", u.ID)
	}
	return &u, nil
}
