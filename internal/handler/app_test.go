package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Sukhad17/Roxiler-Assignment/internal/handler"
	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/router"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

const testCost = 4

type testApp struct {
	e      *echo.Echo
	db     *memDB
	tokens *utils.TokenManager
	events *fakeEvents
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	tokens, err := utils.NewTokenManager("handler-test-secret")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := newMemDB()
	users, stores, ratings := fakeUsers{db}, fakeStores{db}, fakeRatings{db}
	events := &fakeEvents{}

	e := router.NewServer(router.Deps{
		Tokens: tokens,
		Auth:   handler.NewAuthHandler(users, tokens, testCost, log),
		Rating: handler.NewRatingHandler(stores, ratings, events, log),
		Admin:  handler.NewAdminHandler(users, stores, ratings, fakeStats{db}, testCost, log),
		Owner:  handler.NewOwnerHandler(stores, ratings, log),
		Log:    log,
	})
	return &testApp{e: e, db: db, tokens: tokens, events: events}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// seedUser inserts a user directly and returns it with a valid token.
func (a *testApp) seedUser(t *testing.T, name, email, password string, role model.Role) (*model.User, string) {
	t.Helper()
	hash, err := utils.HashPassword(password, testCost)
	require.NoError(t, err)
	u := &model.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, fakeUsers{a.db}.Create(context.Background(), u))
	tok, err := a.tokens.Issue(u.ID, role)
	require.NoError(t, err)
	return u, tok.Token
}

func (a *testApp) seedStore(t *testing.T, name, email string, ownerID uint64) *model.Store {
	t.Helper()
	s := &model.Store{Name: name, Email: email, OwnerID: ownerID}
	require.NoError(t, fakeStores{a.db}.Create(context.Background(), s))
	return s
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireStatus(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
