package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// RatingFilter narrows the admin rating listing; zero ids match all.
type RatingFilter struct {
	UserID  uint64
	StoreID uint64
}

// Rater is a user who has rated a given store.
type Rater struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// StoreRating is one rating of a store together with who submitted it.
type StoreRating struct {
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Upsert records userID's rating of storeID, replacing any earlier value.
// The write is one statement against the (user_id, store_id) unique key,
// so concurrent submissions by the same user never produce two rows.
// created reports whether a new row was inserted.
func (r *RatingRepo) Upsert(ctx context.Context, userID, storeID uint64, value int) (*model.Rating, bool, error) {
	if value < model.MinRating || value > model.MaxRating {
		return nil, false, ErrInvalidRating
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, store_id, rating) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating), updated_at = CURRENT_TIMESTAMP`,
		userID, storeID, value)
	if err != nil {
		switch mysqlErrNumber(err) {
		case errNoReferencedRow:
			return nil, false, ErrStoreNotFound
		case errCheckConstraint:
			return nil, false, ErrInvalidRating
		}
		return nil, false, errors.Wrap(err, "upsert rating")
	}
	// 1 for an insert, 2 for an update, 0 when an update changed nothing.
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, errors.Wrap(err, "upsert rating: rows affected")
	}

	var rt model.Rating
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, store_id, rating, created_at, updated_at
		FROM ratings WHERE user_id = ? AND store_id = ?`, userID, storeID).
		Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Value, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, false, errors.Wrap(err, "read rating")
	}
	return &rt, n == 1, nil
}

// List returns ratings matching f, oldest first.
func (r *RatingRepo) List(ctx context.Context, f RatingFilter) ([]model.Rating, error) {
	where := []string{}
	args := []any{}
	if f.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.StoreID != 0 {
		where = append(where, "store_id = ?")
		args = append(args, f.StoreID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, store_id, rating, created_at, updated_at
		FROM ratings WHERE `+cond+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list ratings")
	}
	defer rows.Close()

	out := []model.Rating{}
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.StoreID, &rt.Value, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan rating")
		}
		out = append(out, rt)
	}
	return out, errors.Wrap(rows.Err(), "list ratings")
}

// AverageForStore is the store's mean rating rounded to two decimals, or 0
// when it has none.
func (r *RatingRepo) AverageForStore(ctx context.Context, storeID uint64) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM ratings WHERE store_id = ?", storeID).Scan(&avg)
	if err != nil {
		return 0, errors.Wrap(err, "store average")
	}
	return avg, nil
}

// RatersForStore lists the distinct users who rated storeID.
func (r *RatingRepo) RatersForStore(ctx context.Context, storeID uint64) ([]Rater, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT u.id, u.name, u.email, u.address
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.store_id = ?
		ORDER BY u.id ASC`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "store raters")
	}
	defer rows.Close()

	out := []Rater{}
	for rows.Next() {
		var rr Rater
		if err := rows.Scan(&rr.ID, &rr.Name, &rr.Email, &rr.Address); err != nil {
			return nil, errors.Wrap(err, "scan rater")
		}
		out = append(out, rr)
	}
	return out, errors.Wrap(rows.Err(), "store raters")
}

// ListForStore returns every rating of storeID with the rater's identity,
// most recently updated first.
func (r *RatingRepo) ListForStore(ctx context.Context, storeID uint64) ([]StoreRating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, r.rating, r.updated_at
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.store_id = ?
		ORDER BY r.updated_at DESC, r.id DESC`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "store ratings")
	}
	defer rows.Close()

	out := []StoreRating{}
	for rows.Next() {
		var sr StoreRating
		if err := rows.Scan(&sr.UserID, &sr.Name, &sr.Email, &sr.Rating, &sr.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan store rating")
		}
		out = append(out, sr)
	}
	return out, errors.Wrap(rows.Err(), "store ratings")
}
