package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
)

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	owner, _ := app.seedUser(t, validName, "o@example.com", validPass, model.RoleStoreOwner)
	store := app.seedStore(t, "Shop", "shop@example.com", owner.ID)
	u, _ := app.seedUser(t, validName, "u@example.com", validPass, model.RoleUser)
	_, _, err := fakeRatings{app.db}.Upsert(context.Background(), u.ID, store.ID, 5)
	require.NoError(t, err)

	for _, path := range []string{"/admin/dashboard", "/api/admin/summary"} {
		rec := app.do(t, http.MethodGet, path, nil, adminTok)
		requireStatus(t, http.StatusOK, rec)
		assert.JSONEq(t, `{"totalUsers":3,"totalStores":1,"totalRatings":1}`, rec.Body.String())
	}
}

func TestAdminCreateUserValidation(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/admin/users", map[string]string{
		"name": validName, "email": "x@example.com", "password": validPass, "role": "rater",
	}, adminTok)
	requireStatus(t, http.StatusBadRequest, rec)
	assert.Contains(t, decode(t, rec)["fields"], "role")

	rec = app.do(t, http.MethodPost, "/admin/users", map[string]string{
		"name": validName, "email": "a@example.com", "password": validPass, "role": "user",
	}, adminTok)
	requireStatus(t, http.StatusBadRequest, rec)
	assert.Equal(t, "email already registered", decode(t, rec)["error"])
}

func TestAdminCreateStoreOwnerChecks(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	rater, _ := app.seedUser(t, validName, "u@example.com", validPass, model.RoleUser)
	owner, _ := app.seedUser(t, validName, "o@example.com", validPass, model.RoleStoreOwner)

	rec := app.do(t, http.MethodPost, "/admin/stores", map[string]any{
		"name": "Shop", "email": "shop@example.com", "owner_id": rater.ID,
	}, adminTok)
	requireStatus(t, http.StatusBadRequest, rec)
	assert.Equal(t, "owner must be an existing store owner", decode(t, rec)["error"])

	body := map[string]any{"name": "Shop", "email": "shop@example.com", "owner_id": owner.ID}
	requireStatus(t, http.StatusCreated, app.do(t, http.MethodPost, "/admin/stores", body, adminTok))
	rec = app.do(t, http.MethodPost, "/admin/stores", body, adminTok)
	requireStatus(t, http.StatusBadRequest, rec)
	assert.Equal(t, "store email already registered", decode(t, rec)["error"])
}

func TestAdminListUsers(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	app.seedUser(t, validName, "o@example.com", validPass, model.RoleStoreOwner)

	rec := app.do(t, http.MethodGet, "/admin/users?role=store_owner&sortBy=email&order=desc", nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	users := decode(t, rec)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "o@example.com", users[0].(map[string]any)["email"])

	calls := app.db.listCalls
	for _, q := range []string{"sortBy=malicious_value", "sortBy=name&order=up", "role=normal_user", "sortBy=average_rating"} {
		rec := app.do(t, http.MethodGet, "/admin/users?"+q, nil, adminTok)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	assert.Equal(t, calls, app.db.listCalls)
}

func TestAdminListStoresHasAverages(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	owner, _ := app.seedUser(t, validName, "o@example.com", validPass, model.RoleStoreOwner)
	store := app.seedStore(t, "Shop", "shop@example.com", owner.ID)
	u, _ := app.seedUser(t, validName, "u@example.com", validPass, model.RoleUser)
	_, _, err := fakeRatings{app.db}.Upsert(context.Background(), u.ID, store.ID, 5)
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/admin/stores?sortBy=average_rating&order=desc", nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	stores := decode(t, rec)["stores"].([]any)
	require.Len(t, stores, 1)
	s := stores[0].(map[string]any)
	assert.Equal(t, float64(5), s["average_rating"])
	assert.NotContains(t, s, "my_rating")
}

func TestAdminDetails(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	owner, _ := app.seedUser(t, "Olivia Owner Henderson", "o@example.com", validPass, model.RoleStoreOwner)
	store := app.seedStore(t, "Shop", "shop@example.com", owner.ID)
	rater, _ := app.seedUser(t, validName, "u@example.com", validPass, model.RoleUser)
	_, _, err := fakeRatings{app.db}.Upsert(context.Background(), rater.ID, store.ID, 3)
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, fmt.Sprintf("/admin/users/%d", owner.ID), nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "store_owner", user["role"])
	assert.Equal(t, float64(3), user["average_rating"])

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/admin/users/%d", rater.ID), nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	assert.NotContains(t, decode(t, rec)["user"], "average_rating")

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/admin/stores/%d", store.ID), nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	s := decode(t, rec)["store"].(map[string]any)
	assert.Equal(t, "Olivia Owner Henderson", s["owner_name"])
	assert.Equal(t, float64(3), s["average_rating"])
	assert.Len(t, s["ratings"], 1)

	requireStatus(t, http.StatusNotFound, app.do(t, http.MethodGet, "/admin/users/9999", nil, adminTok))
	requireStatus(t, http.StatusNotFound, app.do(t, http.MethodGet, "/admin/stores/9999", nil, adminTok))
	requireStatus(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/admin/stores/0", nil, adminTok))
}

func TestOwnerAverageMatchesAcrossViews(t *testing.T) {
	app := newTestApp(t)
	_, adminTok := app.seedUser(t, validName, "a@example.com", validPass, model.RoleAdmin)
	owner, ownerTok := app.seedUser(t, validName, "o@example.com", validPass, model.RoleStoreOwner)
	first := app.seedStore(t, "First", "first@example.com", owner.ID)
	second := app.seedStore(t, "Second", "second@example.com", owner.ID)
	rater, _ := app.seedUser(t, validName, "u@example.com", validPass, model.RoleUser)
	_, _, err := fakeRatings{app.db}.Upsert(context.Background(), rater.ID, first.ID, 2)
	require.NoError(t, err)
	_, _, err = fakeRatings{app.db}.Upsert(context.Background(), rater.ID, second.ID, 5)
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/store-owner/average-rating", nil, ownerTok)
	requireStatus(t, http.StatusOK, rec)
	ownerView := decode(t, rec)
	assert.Equal(t, float64(first.ID), ownerView["store"].(map[string]any)["id"])

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/admin/users/%d", owner.ID), nil, adminTok)
	requireStatus(t, http.StatusOK, rec)
	adminView := decode(t, rec)["user"].(map[string]any)

	assert.Equal(t, float64(2), ownerView["averageRating"])
	assert.Equal(t, ownerView["averageRating"], adminView["average_rating"])
}
