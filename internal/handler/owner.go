package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
)

// OwnerHandler serves the store owner's view of their own store. The store
// is always resolved from the verified identity.
type OwnerHandler struct {
	Stores  StoreStore
	Ratings RatingStore
	Log     *slog.Logger
}

func NewOwnerHandler(stores StoreStore, ratings RatingStore, log *slog.Logger) *OwnerHandler {
	return &OwnerHandler{Stores: stores, Ratings: ratings, Log: log}
}

// ownStore loads the caller's store, writing the error response itself when
// it returns nil.
func (h *OwnerHandler) ownStore(c echo.Context) (*model.Store, error) {
	id, ok := identity(c)
	if !ok {
		return nil, unauthorized(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Stores.GetByOwner(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "no store found for this owner"})
		}
		return nil, internalError(c, h.Log, "store by owner", err)
	}
	return s, nil
}

// Raters lists the distinct users who rated the owner's store.
func (h *OwnerHandler) Raters(c echo.Context) error {
	s, err := h.ownStore(c)
	if s == nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	raters, err := h.Ratings.RatersForStore(ctx, s.ID)
	if err != nil {
		return internalError(c, h.Log, "store raters", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"store": s, "raters": raters})
}

// AverageRating returns the owner's store average, 0 when unrated.
func (h *OwnerHandler) AverageRating(c echo.Context) error {
	s, err := h.ownStore(c)
	if s == nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	avg, err := h.Ratings.AverageForStore(ctx, s.ID)
	if err != nil {
		return internalError(c, h.Log, "store average", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"store": s, "averageRating": avg})
}

// ListRatings lists each rating of the owner's store with the rater.
func (h *OwnerHandler) ListRatings(c echo.Context) error {
	s, err := h.ownStore(c)
	if s == nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	ratings, err := h.Ratings.ListForStore(ctx, s.ID)
	if err != nil {
		return internalError(c, h.Log, "store ratings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"store": s, "ratings": ratings})
}
