package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"blueberry/internal/xpkg/cache"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

func newSession(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewWithClient(rdb, time.Hour, logger.NewNop()), mr
}

type fakeProducts struct {
	items map[string]models.Product
	err   error
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]models.Product{}}
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) List(_ context.Context, flt models.ProductFilter) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.items {
		if flt.Keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (models.Product, error) {
	if f.err != nil {
		return models.Product{}, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

type fakeCategories struct {
	items []models.Category
	err   error
}

func (f *fakeCategories) List(_ context.Context, visibleOnly bool) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Category
	for _, c := range f.items {
		if !visibleOnly || c.Visible {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

type fakeOrders struct {
	mu      sync.Mutex
	items   map[string]models.Order
	history map[string][]models.StatusChange
	err     error
}

func newFakeOrders(os ...models.Order) *fakeOrders {
	f := &fakeOrders{items: map[string]models.Order{}, history: map[string][]models.StatusChange{}}
	for _, o := range os {
		f.items[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, o models.Order, changedBy string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Order{}, f.err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	f.items[o.ID] = o
	f.history[o.ID] = append(f.history[o.ID], models.StatusChange{
		OrderID: o.ID, Field: models.FieldStatus, NewValue: o.Status.String(),
		ChangedBy: changedBy, ChangedAt: o.CreatedAt,
	})
	return o, nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Order{}, f.err
	}
	o, ok := f.items[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context, flt models.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for _, o := range f.items {
		if flt.UserID != "" && o.UserID != flt.UserID {
			continue
		}
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f *fakeOrders) FindPending(ctx context.Context, userID string) (models.Order, error) {
	orders, err := f.List(ctx, models.OrderFilter{UserID: userID, Status: models.StatusPending, Limit: 1})
	if err != nil {
		return models.Order{}, err
	}
	if len(orders) == 0 {
		return models.Order{}, store.ErrNotFound
	}
	return orders[0], nil
}

func (f *fakeOrders) Update(_ context.Context, id string, u models.OrderUpdate, changedBy string) (models.Order, models.Order, []models.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Order{}, models.Order{}, nil, f.err
	}
	prev, ok := f.items[id]
	if !ok {
		return models.Order{}, models.Order{}, nil, store.ErrNotFound
	}
	if u.Status != nil && !prev.Status.CanTransitionTo(*u.Status) {
		return models.Order{}, models.Order{}, nil, models.ErrInvalidTransition
	}
	next := u.Apply(prev)
	next.UpdatedAt = time.Now().UTC()
	f.items[id] = next
	changes := models.Changes(prev, next, changedBy, next.UpdatedAt)
	f.history[id] = append(f.history[id], changes...)
	return prev, next, changes, nil
}

func (f *fakeOrders) History(_ context.Context, id string) ([]models.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[id], nil
}

type fakeUsers struct {
	items map[string]models.User
	err   error
}

func newFakeUsers(us ...models.User) *fakeUsers {
	f := &fakeUsers{items: map[string]models.User{}}
	for _, u := range us {
		f.items[u.UID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return models.User{}, store.ErrDuplicate
		}
	}
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	f.items[u.UID] = u
	return u, nil
}

func (f *fakeUsers) Get(_ context.Context, uid string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u models.User) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	cur, ok := f.items[u.UID]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	cur.Name, cur.Phone, cur.PhotoURL = u.Name, u.Phone, u.PhotoURL
	f.items[u.UID] = cur
	return cur, nil
}

func (f *fakeUsers) UpdateAddresses(_ context.Context, uid string, book []models.Address) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	cur, ok := f.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	cur.Addresses = book
	f.items[uid] = cur
	return cur, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, uid, hash string) error {
	cur, ok := f.items[uid]
	if !ok {
		return store.ErrNotFound
	}
	cur.PasswordHash = hash
	f.items[uid] = cur
	return nil
}

type fakeNotifications struct {
	items []models.Notification
	err   error
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id string) error {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var n int64
	for i, it := range f.items {
		if it.UserID == userID && !it.Read {
			f.items[i].Read = true
			n++
		}
	}
	return n, nil
}

type fakeSettings struct {
	entreprise models.Entreprise
	appearance models.Appearance
	err        error
}

func (f *fakeSettings) Entreprise(context.Context) (models.Entreprise, error) {
	return f.entreprise, f.err
}

func (f *fakeSettings) Appearance(context.Context) (models.Appearance, error) {
	return f.appearance, f.err
}

type published struct {
	key  string
	body any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, key string, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key: key, body: body})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeMedia struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeMedia) Upload(_ context.Context, folder, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", media.ErrUnsupportedType
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "https://cdn.test/" + folder + "/" + uuid.NewString()
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}
