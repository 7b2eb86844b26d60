package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/db"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	loggingmw "github.com/Skotchmaster/little_lemon/internal/middleware/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/testutil"
	"github.com/Skotchmaster/little_lemon/internal/tokens"
)

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	secret []byte
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb := testutil.NewDB(t)
	r := &repo.GormRepo{DB: gdb}
	secret := []byte("access-secret")
	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  secret,
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "error")))
	Register(e, &Deps{
		Auth:          &AuthHTTP{Svc: authSvc},
		Catalog:       &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Cart:          &CartHTTP{Svc: &service.CartService{Repo: r}},
		Orders:        &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events.Nop{}}},
		Groups:        &GroupHTTP{Svc: &service.GroupService{Repo: r, Events: events.Nop{}}},
		Authenticator: authSvc,
		Ready:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})
	return &testServer{e: e, db: gdb, secret: secret}
}

func (s *testServer) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(u.ID, time.Now().Add(time.Minute), s.secret)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	boss := s.token(t, testutil.CreateUser(t, s.db, "boss", models.GroupManager))
	alice := s.token(t, testutil.CreateUser(t, s.db, "alice"))

	rec := s.do(t, http.MethodPost, "/api/categories", alice, map[string]any{"slug": "mains", "title": "Mains"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/categories", boss, map[string]any{"slug": "mains", "title": "Mains"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)

	rec = s.do(t, http.MethodPost, "/api/menu-items", boss, map[string]any{"title": "Pasta", "price": "12.99", "category_id": category.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pasta := decode[map[string]any](t, rec)
	assert.Equal(t, "12.99", pasta["price"])

	rec = s.do(t, http.MethodPost, "/api/menu-items", boss, map[string]any{"title": "Lemon Cake", "price": 5, "category_id": category.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cake := decode[map[string]any](t, rec)

	rec = s.do(t, http.MethodPost, "/api/orders", alice, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/cart/menu-items", alice, map[string]any{"menuitem_id": pasta["id"], "quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/cart/menu-items", alice, map[string]any{"menuitem_id": 999, "quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/cart/menu-items", alice, map[string]any{"menuitem_id": pasta["id"], "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	line := decode[map[string]any](t, rec)
	assert.Equal(t, "25.98", line["price"])

	rec = s.do(t, http.MethodPost, "/api/cart/menu-items", alice, map[string]any{"menuitem_id": cake["id"], "quantity": 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	assert.Equal(t, "30.98", order["total"])
	assert.Equal(t, false, order["status"])
	assert.Len(t, order["order_items"], 2)

	rec = s.do(t, http.MethodGet, "/api/cart/menu-items", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]any](t, rec))

	rec = s.do(t, http.MethodGet, "/api/orders", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Len(t, page["data"], 1)
	assert.EqualValues(t, 1, page["meta"].(map[string]any)["total"])

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/menu-items/%v", pasta["id"]), boss, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderPermissions(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	category := testutil.CreateCategory(t, s.db, "mains")
	item := testutil.CreateMenuItem(t, s.db, category.ID, "Pasta", "12.99")

	aliceUser := testutil.CreateUser(t, s.db, "alice")
	alice := s.token(t, aliceUser)
	boss := s.token(t, testutil.CreateUser(t, s.db, "boss", models.GroupManager))
	driver := s.token(t, testutil.CreateUser(t, s.db, "driver", models.GroupDeliveryCrew))
	bob := s.token(t, testutil.CreateUser(t, s.db, "bob"))

	rec := s.do(t, http.MethodPost, "/api/cart/menu-items", alice, map[string]any{"menuitem_id": item.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/orders", alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/api/orders/%v", decode[map[string]any](t, rec)["id"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, driver, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, boss, nil).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, alice, map[string]any{"status": true}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, driver, map[string]any{"status": true}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, path, boss, map[string]any{}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, path, boss, map[string]any{"delivery_crew_username": "bob"}).Code)

	rec = s.do(t, http.MethodPatch, path, boss, map[string]any{"delivery_crew_username": "driver"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/orders", driver, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["data"], 1)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, driver, map[string]any{"delivery_crew_username": ""}).Code)
	rec = s.do(t, http.MethodPatch, path, driver, map[string]any{"status": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/api/orders?status=false", boss, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["data"])

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, boss, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, boss, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/orders", "", nil).Code)
}

func TestGroupEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	boss := s.token(t, testutil.CreateUser(t, s.db, "boss", models.GroupManager))
	alice := s.token(t, testutil.CreateUser(t, s.db, "alice"))
	dana := testutil.CreateUser(t, s.db, "dana")

	body := map[string]any{"username": "dana"}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/groups/delivery-crew/users", alice, body).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/groups/chefs/users", boss, body).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/groups/manager/users", boss, map[string]any{"username": "ghost"}).Code)

	rec := s.do(t, http.MethodPost, "/api/groups/delivery-crew/users", boss, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User added to Delivery Crew group", decode[map[string]any](t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/groups/delivery-crew/users", boss, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.User](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, dana.ID, users[0].ID)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/groups/delivery-crew/users", boss, body).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/groups/delivery-crew/users", boss, body).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, fmt.Sprintf("/api/groups/manager/users/%d", dana.ID), boss, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/groups/manager/users/999", boss, nil).Code)
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	creds := map[string]any{"username": "alice", "password": "correct-horse"}
	rec := s.do(t, http.MethodPost, "/api/users", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/users", "", creds).Code)

	bad := map[string]any{"username": "alice", "password": "nope-nope"}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/token/login", "", bad).Code)

	rec = s.do(t, http.MethodPost, "/api/token/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[map[string]any](t, rec)
	assert.NotEmpty(t, rec.Result().Cookies())

	rec = s.do(t, http.MethodGet, "/api/users/me", tok["access_token"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "customer", me["role"])

	rec = s.do(t, http.MethodPost, "/api/token/refresh", "", map[string]any{"refresh_token": tok["refresh_token"]})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(t, http.MethodPost, "/api/token/refresh", "", map[string]any{"refresh_token": tok["refresh_token"]}).Code)
}

func TestMenuListing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	mains := testutil.CreateCategory(t, s.db, "mains")
	desserts := testutil.CreateCategory(t, s.db, "desserts")
	testutil.CreateMenuItem(t, s.db, mains.ID, "Pasta", "12.99")
	testutil.CreateMenuItem(t, s.db, mains.ID, "Bruschetta", "7.50")
	testutil.CreateMenuItem(t, s.db, desserts.ID, "Lemon Cake", "5.00")

	rec := s.do(t, http.MethodGet, "/api/menu-items?category=mains&ordering=-price&size=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	data := page["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Pasta", data[0].(map[string]any)["title"])
	meta := page["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.Equal(t, true, meta["has_next"])

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/menu-items?ordering=calories", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/menu-items?featured=maybe", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/menu-items/999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/categories/abc", "", nil).Code)
}
