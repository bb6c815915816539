package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

// AdminHandler serves the administrator dashboard and user/store
// management.
type AdminHandler struct {
	Users      UserStore
	Stores     StoreStore
	Ratings    RatingStore
	Stats      StatsStore
	BcryptCost int
	Log        *slog.Logger
}

func NewAdminHandler(users UserStore, stores StoreStore, ratings RatingStore, stats StatsStore, bcryptCost int, log *slog.Logger) *AdminHandler {
	return &AdminHandler{Users: users, Stores: stores, Ratings: ratings, Stats: stats, BcryptCost: bcryptCost, Log: log}
}

type createUserReq struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
	Role     string `json:"role" validate:"required,role"`
}

func (r *createUserReq) normalize() { trimSpace(&r.Name, &r.Email, &r.Address, &r.Role) }

type createStoreReq struct {
	Name    string `json:"name" validate:"required,max=60"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=400"`
	OwnerID uint64 `json:"owner_id" validate:"required"`
}

func (r *createStoreReq) normalize() { trimSpace(&r.Name, &r.Email, &r.Address) }

// userDetail adds the owner's average rating for store owners.
type userDetail struct {
	*model.User
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// storeRow is the admin listing shape; there is no viewer rating to report.
type storeRow struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	OwnerID       uint64  `json:"owner_id"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type storeDetail struct {
	*repository.StoreDetail
	Ratings []repository.StoreRating `json:"ratings"`
}

// Dashboard returns user, store and rating totals.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Stats.Summary(ctx)
	if err != nil {
		return internalError(c, h.Log, "dashboard summary", err)
	}
	return c.JSON(http.StatusOK, s)
}

// ListUsers supports name, email, address and role filters with
// sortBy/order.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	sort, err := repository.ParseUserSort(c.QueryParam("sortBy"), c.QueryParam("order"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	f := repository.UserFilter{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Address: c.QueryParam("address"),
	}
	if raw := c.QueryParam("role"); raw != "" {
		if f.Role, err = model.ParseRole(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, f, sort)
	if err != nil {
		return internalError(c, h.Log, "list users", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// ListStores supports name, email and address filters with sortBy/order.
func (h *AdminHandler) ListStores(c echo.Context) error {
	sort, err := repository.ParseStoreSort(c.QueryParam("sortBy"), c.QueryParam("order"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	f := repository.StoreFilter{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Address: c.QueryParam("address"),
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	stores, err := h.Stores.List(ctx, f, sort, 0)
	if err != nil {
		return internalError(c, h.Log, "list stores", err)
	}
	rows := make([]storeRow, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, storeRow{
			ID:            s.ID,
			Name:          s.Name,
			Email:         s.Email,
			Address:       s.Address,
			OwnerID:       s.OwnerID,
			AverageRating: s.AverageRating,
			RatingCount:   s.RatingCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"stores": rows})
}

// CreateUser adds an account with any role.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return badRequest(c, err.Error())
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return internalError(c, h.Log, "hash password", err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u := &model.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Address: req.Address, Role: role}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return badRequest(c, "email already registered")
		}
		return internalError(c, h.Log, "create user", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created successfully", "user": u})
}

// CreateStore adds a store owned by an existing store owner.
func (h *AdminHandler) CreateStore(c echo.Context) error {
	var req createStoreReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s := &model.Store{Name: req.Name, Email: req.Email, Address: req.Address, OwnerID: req.OwnerID}
	if err := h.Stores.Create(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidOwner):
			return badRequest(c, err.Error())
		case errors.Is(err, repository.ErrStoreEmailExists):
			return badRequest(c, "store email already registered")
		}
		return internalError(c, h.Log, "create store", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "store created successfully", "store": s})
}

// GetUser returns one user; store owners also carry their average rating.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user")
		}
		return internalError(c, h.Log, "get user", err)
	}
	out := userDetail{User: u}
	if u.Role == model.RoleStoreOwner {
		avg, err := h.Stores.AverageForOwner(ctx, u.ID)
		if err != nil {
			return internalError(c, h.Log, "owner average", err)
		}
		out.AverageRating = &avg
	}
	return c.JSON(http.StatusOK, echo.Map{"user": out})
}

// GetStore returns one store with its owner, average and ratings.
func (h *AdminHandler) GetStore(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid store id")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Stores.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return notFound(c, "store")
		}
		return internalError(c, h.Log, "get store", err)
	}
	ratings, err := h.Ratings.ListForStore(ctx, id)
	if err != nil {
		return internalError(c, h.Log, "store ratings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"store": storeDetail{StoreDetail: d, Ratings: ratings}})
}
