package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

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

func (f *fakeProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	if f.err != nil {
		return models.Product{}, f.err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, p models.Product) (models.Product, error) {
	if f.err != nil {
		return models.Product{}, f.err
	}
	if _, ok := f.items[p.ID]; !ok {
		return models.Product{}, store.ErrNotFound
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) (models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	delete(f.items, id)
	return p, nil
}

func (f *fakeProducts) ToggleAvailable(_ context.Context, id string) (models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	p.Available = !p.Available
	f.items[id] = p
	return p, nil
}

func (f *fakeProducts) ToggleSpecial(_ context.Context, id string) (models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	p.IsSpecial = !p.IsSpecial
	f.items[id] = p
	return p, nil
}

func (f *fakeProducts) Count(context.Context) (int, error) {
	return len(f.items), f.err
}

func (f *fakeProducts) CountByCategory(context.Context) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int{}
	for _, p := range f.items {
		out[p.Category]++
	}
	return out, nil
}

type fakeCategories struct {
	items map[string]models.Category
	err   error
}

func newFakeCategories(cs ...models.Category) *fakeCategories {
	f := &fakeCategories{items: map[string]models.Category{}}
	for _, c := range cs {
		f.items[c.ID] = c
	}
	return f
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategories) Get(_ context.Context, id string) (models.Category, error) {
	if f.err != nil {
		return models.Category{}, f.err
	}
	c, ok := f.items[id]
	if !ok {
		return models.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) Create(_ context.Context, c models.Category) (models.Category, error) {
	if _, ok := f.items[c.ID]; ok {
		return models.Category{}, store.ErrDuplicate
	}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCategories) Update(_ context.Context, c models.Category) (models.Category, error) {
	if _, ok := f.items[c.ID]; !ok {
		return models.Category{}, store.ErrNotFound
	}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCategories) Count(context.Context) (int, error) {
	return len(f.items), f.err
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

func (f *fakeOrders) Get(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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
		if flt.Status != "" && o.Status != flt.Status {
			continue
		}
		if !flt.Since.IsZero() && o.CreatedAt.Before(flt.Since) {
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

func (f *fakeOrders) Update(_ context.Context, id string, u models.OrderUpdate, changedBy string) (models.Order, models.Order, []models.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, ok := f.items[id]
	if !ok {
		return models.Order{}, models.Order{}, nil, store.ErrNotFound
	}
	if u.Status != nil && !prev.Status.CanTransitionTo(*u.Status) {
		return models.Order{}, models.Order{}, nil, models.ErrInvalidTransition
	}
	next := u.Apply(prev)
	f.items[id] = next
	changes := models.Changes(prev, next, changedBy, time.Now().UTC())
	f.history[id] = append(f.history[id], changes...)
	return prev, next, changes, nil
}

func (f *fakeOrders) History(_ context.Context, id string) ([]models.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[id], nil
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeOrders) CountByStatus(context.Context) (map[models.OrderStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[models.OrderStatus]int{}
	for _, o := range f.items {
		out[o.Status]++
	}
	return out, nil
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

func (f *fakeUsers) List(_ context.Context, role models.Role) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.items {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, uid string) (models.User, error) {
	u, ok := f.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, uid string, role models.Role) (models.User, error) {
	u, ok := f.items[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	u.Role = role
	f.items[uid] = u
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, uid string) error {
	if _, ok := f.items[uid]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, uid)
	return nil
}

type fakeSettings struct {
	entreprise models.Entreprise
	appearance models.Appearance
	err        error
}

func (f *fakeSettings) Entreprise(context.Context) (models.Entreprise, error) {
	return f.entreprise, f.err
}

func (f *fakeSettings) SaveEntreprise(_ context.Context, e models.Entreprise) error {
	if f.err != nil {
		return f.err
	}
	f.entreprise = e
	return nil
}

func (f *fakeSettings) Appearance(context.Context) (models.Appearance, error) {
	return f.appearance, f.err
}

func (f *fakeSettings) SaveAppearance(_ context.Context, a models.Appearance) error {
	if f.err != nil {
		return f.err
	}
	f.appearance = a
	return nil
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
}

func (f *fakeMedia) Upload(_ context.Context, folder, contentType string, body io.Reader) (string, error) {
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
