package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Users      UserStore
	Tokens     TokenIssuer
	BcryptCost int
	Log        *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthHandler(users UserStore, tokens TokenIssuer, bcryptCost int, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, BcryptCost: bcryptCost, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
}

func (r *registerReq) normalize() { trimSpace(&r.Name, &r.Email, &r.Address) }

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

type loginResp struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      model.Role  `json:"role"`
	User      *model.User `json:"user"`
}

// Register creates a rater account. Self-registration never grants any
// other role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return internalError(c, h.Log, "hash password", err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         model.RoleUser,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return badRequest(c, "email already registered")
		}
		return internalError(c, h.Log, "create user", err)
	}
	h.Log.InfoContext(ctx, "user registered", "user_id", u.ID)
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered successfully"})
}

// Login verifies credentials and returns a one-hour access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Spend the same bcrypt work as a real comparison.
			utils.VerifyPassword(h.dummy(), req.Password)
			return invalidCredentials(c)
		}
		return internalError(c, h.Log, "load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}

	tok, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return internalError(c, h.Log, "issue token", err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Message:   "login successful",
		Token:     tok.Token,
		ExpiresAt: tok.Exp,
		Role:      u.Role,
		User:      u,
	})
}

// Me echoes the verified identity.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id.UserID, "role": id.Role})
}

// UpdatePassword replaces the caller's password after checking the current
// one.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var req updatePasswordReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unauthorized(c)
		}
		return internalError(c, h.Log, "load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.BcryptCost)
	if err != nil {
		return internalError(c, h.Log, "hash password", err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return internalError(c, h.Log, "update password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

func (h *AuthHandler) dummy() string {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = utils.HashPassword("not-a-real-password", h.BcryptCost)
	})
	return h.dummyHash
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
}

