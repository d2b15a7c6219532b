package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/admin/api/http/handle"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/cache"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type productRepo struct{ items map[string]models.Product }

func (r *productRepo) List(context.Context, models.ProductFilter) ([]models.Product, error) {
	out := make([]models.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}
func (r *productRepo) Get(_ context.Context, id string) (models.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}
func (r *productRepo) Create(_ context.Context, p models.Product) (models.Product, error) {
	p.ID = "new"
	r.items[p.ID] = p
	return p, nil
}
func (r *productRepo) Update(_ context.Context, p models.Product) (models.Product, error) {
	r.items[p.ID] = p
	return p, nil
}
func (r *productRepo) Delete(ctx context.Context, id string) (models.Product, error) {
	p, err := r.Get(ctx, id)
	delete(r.items, id)
	return p, err
}
func (r *productRepo) ToggleAvailable(ctx context.Context, id string) (models.Product, error) {
	return r.Get(ctx, id)
}
func (r *productRepo) ToggleSpecial(ctx context.Context, id string) (models.Product, error) {
	return r.Get(ctx, id)
}
func (r *productRepo) Count(context.Context) (int, error) { return len(r.items), nil }
func (r *productRepo) CountByCategory(context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, p := range r.items {
		out[p.Category]++
	}
	return out, nil
}

type categoryRepo struct{}

var plats = models.Category{ID: "plats", Name: "Plats", Visible: true}

func (categoryRepo) List(context.Context, bool) ([]models.Category, error) {
	return []models.Category{plats}, nil
}
func (categoryRepo) Get(_ context.Context, id string) (models.Category, error) {
	if id != plats.ID {
		return models.Category{}, store.ErrNotFound
	}
	return plats, nil
}
func (categoryRepo) Create(_ context.Context, c models.Category) (models.Category, error) {
	return c, nil
}
func (categoryRepo) Update(_ context.Context, c models.Category) (models.Category, error) {
	return c, nil
}
func (categoryRepo) Delete(context.Context, string) error { return nil }
func (categoryRepo) Count(context.Context) (int, error)   { return 1, nil }

type orderRepo struct{ items map[string]models.Order }

func (r orderRepo) Get(_ context.Context, id string) (models.Order, error) {
	o, ok := r.items[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}
func (r orderRepo) List(context.Context, models.OrderFilter) ([]models.Order, error) {
	out := make([]models.Order, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, nil
}
func (r orderRepo) Update(_ context.Context, id string, u models.OrderUpdate, by string) (models.Order, models.Order, []models.StatusChange, error) {
	prev, ok := r.items[id]
	if !ok {
		return models.Order{}, models.Order{}, nil, store.ErrNotFound
	}
	if u.Status != nil && !prev.Status.CanTransitionTo(*u.Status) {
		return models.Order{}, models.Order{}, nil, models.ErrInvalidTransition
	}
	next := u.Apply(prev)
	r.items[id] = next
	return prev, next, models.Changes(prev, next, by, time.Now()), nil
}
func (r orderRepo) History(context.Context, string) ([]models.StatusChange, error) { return nil, nil }
func (r orderRepo) Delete(context.Context, string) error                            { return nil }
func (r orderRepo) CountByStatus(context.Context) (map[models.OrderStatus]int, error) {
	out := map[models.OrderStatus]int{}
	for _, o := range r.items {
		out[o.Status]++
	}
	return out, nil
}

type userRepo struct{ items map[string]models.User }

func newUserRepo() *userRepo {
	return &userRepo{items: map[string]models.User{
		"boss":  {UID: "boss", Role: models.RoleAdmin},
		"alice": {UID: "alice", Role: models.RoleClient},
	}}
}

func (r *userRepo) List(context.Context, models.Role) ([]models.User, error) {
	out := make([]models.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u)
	}
	return out, nil
}
func (r *userRepo) Get(_ context.Context, uid string) (models.User, error) {
	u, ok := r.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}
func (r *userRepo) UpdateRole(_ context.Context, uid string, role models.Role) (models.User, error) {
	u, ok := r.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	u.Role = role
	r.items[uid] = u
	return u, nil
}
func (r *userRepo) Delete(_ context.Context, uid string) error {
	if _, ok := r.items[uid]; !ok {
		return store.ErrNotFound
	}
	delete(r.items, uid)
	return nil
}

type settingsRepo struct{ appearance models.Appearance }

func (r *settingsRepo) Entreprise(context.Context) (models.Entreprise, error) {
	return models.DefaultEntreprise(), nil
}
func (r *settingsRepo) SaveEntreprise(context.Context, models.Entreprise) error { return nil }
func (r *settingsRepo) Appearance(context.Context) (models.Appearance, error) {
	return r.appearance, nil
}
func (r *settingsRepo) SaveAppearance(_ context.Context, a models.Appearance) error {
	r.appearance = a
	return nil
}

type mediaStore struct{}

func (mediaStore) Upload(_ context.Context, folder, _ string, body io.Reader) (string, error) {
	_, err := io.ReadAll(body)
	return "https://cdn.test/" + folder + "/file", err
}
func (mediaStore) Delete(context.Context, string) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
func (nopPublisher) Close() error                             { return nil }

type testRouter struct {
	handler http.Handler
	tokens  *auth.Tokens
	users   *userRepo
}

func newTestRouter(t *testing.T) testRouter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	session := cache.NewWithClient(rdb, time.Hour, logger.NewNop())

	mylog := logger.NewNop()
	m := metrics.New("admin_test")
	tokens := auth.NewTokens("test-secret", time.Hour)

	products := &productRepo{items: map[string]models.Product{
		"p1": {ID: "p1", Name: "Poulet DG", Category: "plats", Price: 10, Available: true},
	}}
	orders := orderRepo{items: map[string]models.Order{
		"o1": {ID: "o1", Status: models.StatusPending, CreatedAt: time.Now()},
	}}
	settings := &settingsRepo{appearance: models.DefaultAppearance()}
	users := newUserRepo()

	h := Handlers{
		Dashboard:  handle.NewDashboardHandler(services.NewDashboardService(products, categoryRepo{}, orders, users, mylog), mylog),
		Products:   handle.NewProductHandler(services.NewProductService(products, categoryRepo{}, mediaStore{}, mylog), mylog),
		Categories: handle.NewCategoryHandler(services.NewCategoryService(categoryRepo{}, products, mylog), mylog),
		Orders:     handle.NewOrderHandler(services.NewOrderService(orders, nopPublisher{}, m, mylog), mylog),
		Users:      handle.NewUserHandler(services.NewUserService(users, mylog), mylog),
		Settings:   handle.NewSettingsHandler(services.NewSettingsService(settings, mediaStore{}, mylog), mylog),
		Auther:     auth.NewMiddleware(tokens, session, mylog),
		Accounts:   users,
		Metrics:    m,
	}
	return testRouter{handler: NewRouter(h, mylog), tokens: tokens, users: users}
}

func (tr testRouter) token(t *testing.T, uid string, role models.Role) string {
	t.Helper()
	raw, _, err := tr.tokens.Issue(models.User{UID: uid, Email: uid + "@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + raw
}

func (tr testRouter) do(req *http.Request, authz string) *httptest.ResponseRecorder {
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(method, path, nil)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAdminGate(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), tr.token(t, "alice", models.RoleClient))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Accès refusé","code":403}`, rec.Body.String())

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), tr.token(t, "boss", models.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	var d struct {
		Products int `json:"products"`
		Users    int `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, 1, d.Products)
	assert.Equal(t, 2, d.Users)
}

func TestAdminOrderTransitions(t *testing.T) {
	tr := newTestRouter(t)
	admin := tr.token(t, "boss", models.RoleAdmin)

	rec := tr.do(jsonRequest(http.MethodPatch, "/admin/orders/o1", `{"status":"livré"}`), admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = tr.do(jsonRequest(http.MethodPatch, "/admin/orders/o1", `{}`), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = tr.do(jsonRequest(http.MethodPatch, "/admin/orders/o1", `{"status":"confirmé","niveau":"Commande reçue"}`), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"published":2`)

	rec = tr.do(jsonRequest(http.MethodPatch, "/admin/orders/nope", `{"status":"annulé"}`), admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminStats(t *testing.T) {
	tr := newTestRouter(t)
	admin := tr.token(t, "boss", models.RoleAdmin)

	rec := tr.do(jsonRequest(http.MethodGet, "/admin/stats?range=month", ""), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalOrders":1`)

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/stats?range=century", ""), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCreateProduct_Multipart(t *testing.T) {
	tr := newTestRouter(t)
	admin := tr.token(t, "boss", models.RoleAdmin)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Brochettes"))
	require.NoError(t, mw.WriteField("category", "plats"))
	require.NoError(t, mw.WriteField("price", "4.5"))
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="image"; filename="b.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := tr.do(req, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Brochettes", p.Name)
	assert.Equal(t, 4.5, p.Price)
	assert.True(t, p.Available)
	assert.Equal(t, "https://cdn.test/products/file", p.Image)
}

func TestAdminCreateProduct_JSONValidation(t *testing.T) {
	tr := newTestRouter(t)
	admin := tr.token(t, "boss", models.RoleAdmin)

	rec := tr.do(jsonRequest(http.MethodPost, "/admin/products", `{"name":"X","category":"glaces","price":1}`), admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = tr.do(jsonRequest(http.MethodPost, "/admin/products", `{"name":"","category":"plats","price":1}`), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSelfDemotion(t *testing.T) {
	tr := newTestRouter(t)
	admin := tr.token(t, "boss", models.RoleAdmin)

	rec := tr.do(jsonRequest(http.MethodPut, "/admin/users/boss/role", `{"role":"client"}`), admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = tr.do(jsonRequest(http.MethodPut, "/admin/users/alice/role", `{"role":"admin"}`), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestAdminGate_FollowsStoredRole(t *testing.T) {
	tr := newTestRouter(t)
	boss := tr.token(t, "boss", models.RoleAdmin)
	alice := tr.token(t, "alice", models.RoleClient)

	rec := tr.do(jsonRequest(http.MethodPut, "/admin/users/alice/role", `{"role":"admin"}`), boss)
	require.Equal(t, http.StatusOK, rec.Code)
	staleAdmin := tr.token(t, "alice", models.RoleAdmin)

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), alice)
	assert.Equal(t, http.StatusOK, rec.Code, "promotion applies to an older token")

	rec = tr.do(jsonRequest(http.MethodPut, "/admin/users/alice/role", `{"role":"client"}`), boss)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), staleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = tr.do(jsonRequest(http.MethodDelete, "/admin/users/alice", ""), boss)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = tr.do(jsonRequest(http.MethodGet, "/admin/dashboard", ""), staleAdmin)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMetricsIsPublic(t *testing.T) {
	tr := newTestRouter(t)
	rec := tr.do(jsonRequest(http.MethodGet, "/metrics", ""), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
