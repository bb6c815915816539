package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/metrics"
	"github.com/Sukhad17/Roxiler-Assignment/internal/queue"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
)

// RatingHandler serves the rater-facing store listing and rating
// submission, plus the admin rating listing.
type RatingHandler struct {
	Stores  StoreStore
	Ratings RatingStore
	Events  EventPublisher
	Log     *slog.Logger
}

func NewRatingHandler(stores StoreStore, ratings RatingStore, events EventPublisher, log *slog.Logger) *RatingHandler {
	return &RatingHandler{Stores: stores, Ratings: ratings, Events: events, Log: log}
}

type rateReq struct {
	Rating int `json:"rating" validate:"rating"`
}

// RateStore creates or replaces the caller's rating of :storeId.
func (h *RatingHandler) RateStore(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	storeID, ok := parseID(c, "storeId")
	if !ok {
		return badRequest(c, "invalid store id")
	}
	var req rateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		metrics.RecordRating(metrics.OutcomeRejected)
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rating, created, err := h.Ratings.Upsert(ctx, id.UserID, storeID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStoreNotFound):
			metrics.RecordRating(metrics.OutcomeRejected)
			return notFound(c, "store")
		case errors.Is(err, repository.ErrInvalidRating):
			metrics.RecordRating(metrics.OutcomeRejected)
			return badRequest(c, err.Error())
		}
		return internalError(c, h.Log, "upsert rating", err)
	}

	msg, outcome := "rating updated", metrics.OutcomeUpdated
	if created {
		msg, outcome = "rating submitted", metrics.OutcomeCreated
	}
	metrics.RecordRating(outcome)
	if h.Events != nil {
		h.Events.RatingSubmitted(queue.RatingSubmittedEvent{
			RatingID:    rating.ID,
			UserID:      rating.UserID,
			StoreID:     rating.StoreID,
			Rating:      rating.Value,
			Created:     created,
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "rating": rating})
}

// ListStores lists stores with their average rating and the caller's own
// rating. Accepts name and address filters and sortBy/order.
func (h *RatingHandler) ListStores(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	sort, err := repository.ParseStoreSort(c.QueryParam("sortBy"), c.QueryParam("order"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	f := repository.StoreFilter{Name: c.QueryParam("name"), Address: c.QueryParam("address")}

	ctx, cancel := dbCtx(c)
	defer cancel()

	stores, err := h.Stores.List(ctx, f, sort, id.UserID)
	if err != nil {
		return internalError(c, h.Log, "list stores", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stores": stores})
}

// ListRatings returns every rating, optionally narrowed by userId and
// storeId.
func (h *RatingHandler) ListRatings(c echo.Context) error {
	userID, ok := optionalID(c, "userId")
	if !ok {
		return badRequest(c, "invalid userId")
	}
	storeID, ok := optionalID(c, "storeId")
	if !ok {
		return badRequest(c, "invalid storeId")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	ratings, err := h.Ratings.List(ctx, repository.RatingFilter{UserID: userID, StoreID: storeID})
	if err != nil {
		return internalError(c, h.Log, "list ratings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(ratings), "ratings": ratings})
}
