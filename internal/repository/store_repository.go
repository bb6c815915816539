package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// StoreFilter narrows store listings by substring match.
type StoreFilter struct {
	Name    string
	Email   string
	Address string
}

// StoreSummary is a store together with its aggregate rating. MyRating is
// the viewing user's own rating and is 0 when they have not rated the
// store or when no viewer was given.
type StoreSummary struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	OwnerID       uint64  `json:"owner_id"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
	MyRating      int     `json:"my_rating"`
}

// StoreDetail is a single store with its owner and aggregate rating.
type StoreDetail struct {
	model.Store
	OwnerName     string  `json:"owner_name"`
	OwnerEmail    string  `json:"owner_email"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type StoreRepo struct{ db *sql.DB }

func NewStoreRepo(db *sql.DB) *StoreRepo { return &StoreRepo{db: db} }

// Create inserts s and fills in its ID. The owner check and the insert are
// a single statement, so a store can only ever reference a store_owner.
func (r *StoreRepo) Create(ctx context.Context, s *model.Store) error {
	s.Email = NormalizeEmail(s.Email)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stores (name, email, address, owner_id)
		SELECT ?, ?, ?, u.id FROM users u WHERE u.id = ? AND u.role = ?`,
		s.Name, s.Email, s.Address, s.OwnerID, string(model.RoleStoreOwner))
	if err != nil {
		if mysqlErrNumber(err) == errDuplicateEntry {
			return ErrStoreEmailExists
		}
		return errors.Wrap(err, "insert store")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "insert store: rows affected")
	}
	if n == 0 {
		return ErrInvalidOwner
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "insert store: last id")
	}
	s.ID = uint64(id)
	return nil
}

// GetByOwner returns the store owned by ownerID. An owner with several
// stores gets the one with the lowest id.
func (r *StoreRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.Store, error) {
	var s model.Store
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, address, owner_id, created_at, updated_at
		FROM stores WHERE owner_id = ? ORDER BY id ASC LIMIT 1`, ownerID).
		Scan(&s.ID, &s.Name, &s.Email, &s.Address, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, errors.Wrap(err, "store by owner")
	}
	return &s, nil
}

// GetDetail returns a store joined with its owner and rating aggregate.
func (r *StoreRepo) GetDetail(ctx context.Context, id uint64) (*StoreDetail, error) {
	var d StoreDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
			u.name, u.email,
			COALESCE(ROUND(AVG(r.rating), 2), 0), COUNT(r.id)
		FROM stores s
		JOIN users u ON u.id = s.owner_id
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE s.id = ?
		GROUP BY s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at, u.name, u.email`, id).
		Scan(&d.ID, &d.Name, &d.Email, &d.Address, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt,
			&d.OwnerName, &d.OwnerEmail, &d.AverageRating, &d.RatingCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, errors.Wrap(err, "store detail")
	}
	return &d, nil
}

// List returns stores matching f with their average rating, ordered by s.
// viewerID selects whose rating is reported in MyRating; pass 0 for none.
func (r *StoreRepo) List(ctx context.Context, f StoreFilter, s Sort, viewerID uint64) ([]StoreSummary, error) {
	where := []string{}
	args := []any{viewerID}
	if f.Name != "" {
		where = append(where, "s.name LIKE ?")
		args = append(args, likePattern(f.Name))
	}
	if f.Email != "" {
		where = append(where, "s.email LIKE ?")
		args = append(args, likePattern(f.Email))
	}
	if f.Address != "" {
		where = append(where, "s.address LIKE ?")
		args = append(args, likePattern(f.Address))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT s.id, s.name, s.email, s.address, s.owner_id,
			COALESCE(ROUND(AVG(r.rating), 2), 0) AS average_rating,
			COUNT(r.id) AS rating_count,
			COALESCE(MAX(CASE WHEN r.user_id = ? THEN r.rating END), 0) AS my_rating
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE ` + cond + `
		GROUP BY s.id, s.name, s.email, s.address, s.owner_id
		` + s.orderBy("s.id")

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list stores")
	}
	defer rows.Close()

	out := []StoreSummary{}
	for rows.Next() {
		var st StoreSummary
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.Address, &st.OwnerID,
			&st.AverageRating, &st.RatingCount, &st.MyRating); err != nil {
			return nil, errors.Wrap(err, "scan store")
		}
		out = append(out, st)
	}
	return out, errors.Wrap(rows.Err(), "list stores")
}

// AverageForOwner is the mean rating of the store GetByOwner resolves for
// ownerID, rounded to two decimals, or 0 when there are no ratings.
func (r *StoreRepo) AverageForOwner(ctx context.Context, ownerID uint64) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(ROUND(AVG(r.rating), 2), 0)
		FROM ratings r
		WHERE r.store_id = (SELECT MIN(s.id) FROM stores s WHERE s.owner_id = ?)`, ownerID).Scan(&avg)
	if err != nil {
		return 0, errors.Wrap(err, "owner average")
	}
	return avg, nil
}
