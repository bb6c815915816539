package router

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Sukhad17/Roxiler-Assignment/internal/handler"
	"github.com/Sukhad17/Roxiler-Assignment/internal/middleware"
)

// Deps carries everything the routes need. The middleware fields are
// optional; nil disables them.
type Deps struct {
	Tokens middleware.TokenVerifier
	Auth   *handler.AuthHandler
	Rating *handler.RatingHandler
	Admin  *handler.AdminHandler
	Owner  *handler.OwnerHandler
	DB     handler.Pinger
	Log    *slog.Logger

	CORSOrigins    []string
	GlobalLimit    echo.MiddlewareFunc
	AuthLimit      echo.MiddlewareFunc
	DashboardCache echo.MiddlewareFunc
}

// NewServer returns an Echo instance with the global middleware stack and
// all routes registered.
func NewServer(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())
	if len(d.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if d.GlobalLimit != nil {
		e.Use(d.GlobalLimit)
	}

	RegisterRoutes(e, d)
	return e
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
