// Package handler implements the HTTP endpoints. Handlers depend on the
// small interfaces below rather than on concrete repositories; the
// repository package provides the production implementations.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/middleware"
	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/queue"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	List(ctx context.Context, f repository.UserFilter, s repository.Sort) ([]model.User, error)
}

type StoreStore interface {
	Create(ctx context.Context, s *model.Store) error
	GetByOwner(ctx context.Context, ownerID uint64) (*model.Store, error)
	GetDetail(ctx context.Context, id uint64) (*repository.StoreDetail, error)
	List(ctx context.Context, f repository.StoreFilter, s repository.Sort, viewerID uint64) ([]repository.StoreSummary, error)
	AverageForOwner(ctx context.Context, ownerID uint64) (float64, error)
}

type RatingStore interface {
	Upsert(ctx context.Context, userID, storeID uint64, value int) (*model.Rating, bool, error)
	List(ctx context.Context, f repository.RatingFilter) ([]model.Rating, error)
	AverageForStore(ctx context.Context, storeID uint64) (float64, error)
	RatersForStore(ctx context.Context, storeID uint64) ([]repository.Rater, error)
	ListForStore(ctx context.Context, storeID uint64) ([]repository.StoreRating, error)
}

type StatsStore interface {
	Summary(ctx context.Context) (repository.Summary, error)
}

// TokenIssuer signs access tokens. *utils.TokenManager satisfies it.
type TokenIssuer interface {
	Issue(userID uint64, role model.Role) (utils.AccessToken, error)
}

// EventPublisher is notified after every successful rating write. It must
// not block the request.
type EventPublisher interface {
	RatingSubmitted(ev queue.RatingSubmittedEvent)
}

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// identity returns the caller attached by middleware.JWTAuth.
func identity(c echo.Context) (middleware.Identity, bool) {
	return middleware.IdentityFrom(c.Request().Context())
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// optionalID reads a positive integer query parameter; an absent value is 0.
func optionalID(c echo.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id > 0
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
