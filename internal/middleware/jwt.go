package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

// TokenVerifier checks a raw access token. *utils.TokenManager satisfies it.
type TokenVerifier interface {
	Verify(raw string) (utils.Subject, error)
}

// JWTAuth returns an Echo middleware that requires an
// "Authorization: Bearer <token>" header, verifies the token and stores the
// caller's Identity in the request context. Any other header shape, an
// invalid signature or an expired token yields 401.
func JWTAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			sub, err := tokens.Verify(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, utils.ErrExpiredToken) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
			}

			id := Identity{UserID: sub.UserID, Role: sub.Role}
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			c.Set("user_id", sub.UserID)
			c.Set("role", string(sub.Role))
			return next(c)
		}
	}
}

// bearerToken accepts exactly "Bearer <token>" with a single space and a
// token free of whitespace.
func bearerToken(h string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	raw := h[len(prefix):]
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return "", false
	}
	return raw, true
}
