package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Summary holds the admin dashboard totals.
type Summary struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Summary counts users, stores and ratings in one round trip.
func (r *StatsRepo) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM stores),
			(SELECT COUNT(*) FROM ratings)`).
		Scan(&s.TotalUsers, &s.TotalStores, &s.TotalRatings)
	if err != nil {
		return Summary{}, errors.Wrap(err, "dashboard summary")
	}
	return s, nil
}
