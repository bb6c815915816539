package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}

// internalError logs err with the request id and answers with a generic
// message; storage details never reach the client.
func internalError(c echo.Context, log *slog.Logger, op string, err error) error {
	log.ErrorContext(c.Request().Context(), op,
		"err", err,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"path", c.Path(),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// normalizer is implemented by request bodies that clean their fields
// between decoding and validation.
type normalizer interface{ normalize() }

func trimSpace(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// bindAndValidate decodes the body into req and runs the registered
// validator. It writes the 400 response itself and reports false when the
// request should stop.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid request body")
	}
	if n, ok := req.(normalizer); ok {
		n.normalize()
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "validation failed",
				"fields": fieldMessages(verrs),
			})
		}
		return false, badRequest(c, err.Error())
	}
	return true, nil
}
