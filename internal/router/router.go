// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Sukhad17/Roxiler-Assignment/internal/handler"
	"github.com/Sukhad17/Roxiler-Assignment/internal/metrics"
	"github.com/Sukhad17/Roxiler-Assignment/internal/middleware"
	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

// apiPrefixes lists the mount points of the JSON API. The SPA client calls
// the /api variants.
var apiPrefixes = []string{"", "/api"}

// RegisterRoutes registers the unauthenticated operational endpoints and
// the JSON API under every prefix in apiPrefixes.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	if d.DB != nil {
		e.GET("/readyz", handler.Ready(d.DB))
	}
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	for _, p := range apiPrefixes {
		registerAPI(e.Group(p), d)
	}
}

// registerAPI attaches middleware per route rather than per group so that
// the root group does not swallow unknown paths with a 401.
func registerAPI(g *echo.Group, d Deps) {
	authed := middleware.JWTAuth(d.Tokens)
	anyRole := chain(authed)
	admin := chain(authed, middleware.RequireRole(model.RoleAdmin))
	owner := chain(authed, middleware.RequireRole(model.RoleStoreOwner))

	// ---- Auth ----
	g.POST("/register", d.Auth.Register, chain(d.AuthLimit)...)
	g.POST("/login", d.Auth.Login, chain(d.AuthLimit)...)
	g.GET("/me", d.Auth.Me, anyRole...)
	g.PUT("/update-password", d.Auth.UpdatePassword, anyRole...)
	g.PUT("/users/password", d.Auth.UpdatePassword, anyRole...)

	// ---- Ratings ----
	g.GET("/stores", d.Rating.ListStores, anyRole...)
	g.POST("/stores/:storeId/rate", d.Rating.RateStore, anyRole...)
	g.GET("/ratings", d.Rating.ListRatings, admin...)

	// ---- Admin ----
	dashboard := chain(authed, middleware.RequireRole(model.RoleAdmin), d.DashboardCache)
	g.GET("/admin/dashboard", d.Admin.Dashboard, dashboard...)
	g.GET("/admin/summary", d.Admin.Dashboard, dashboard...)
	g.GET("/admin/users", d.Admin.ListUsers, admin...)
	g.POST("/admin/users", d.Admin.CreateUser, admin...)
	g.GET("/admin/users/:id", d.Admin.GetUser, admin...)
	g.GET("/admin/stores", d.Admin.ListStores, admin...)
	g.POST("/admin/stores", d.Admin.CreateStore, admin...)
	g.GET("/admin/stores/:id", d.Admin.GetStore, admin...)

	// ---- Store owner ----
	g.GET("/store-owner/raters", d.Owner.Raters, owner...)
	g.GET("/store-owner/average-rating", d.Owner.AverageRating, owner...)
	g.GET("/store-owner/ratings", d.Owner.ListRatings, owner...)
}

// chain drops nil entries so optional middleware can be passed unchecked.
func chain(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
