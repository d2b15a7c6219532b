package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

var accents = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a", "ç", "c",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i", "ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
)

type CategoryService struct {
	categories core.ICategoryRepo
	products   core.IProductRepo
	mylog      logger.Logger
}

func NewCategoryService(categories core.ICategoryRepo, products core.IProductRepo, mylog logger.Logger) *CategoryService {
	return &CategoryService{categories: categories, products: products, mylog: mylog}
}

// List returns every category, hidden ones included, by display order.
func (cs *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := cs.categories.List(ctx, false)
	if err != nil {
		cs.mylog.Action("list_categories").Error("Failed to list categories", err)
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })
	return cats, nil
}

func (cs *CategoryService) Get(ctx context.Context, id string) (models.Category, error) {
	c, err := cs.categories.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		cs.mylog.Action("get_category").Error("Failed to get category", err, "category_id", id)
		return models.Category{}, fmt.Errorf("cannot get category: %w", err)
	}
	return c, nil
}

// Create stores a category. Without an explicit id the id is derived
// from the name, the way products reference their category.
func (cs *CategoryService) Create(ctx context.Context, in dto.CategoryInput) (models.Category, error) {
	mylog := cs.mylog.Action("create_category")

	c := in.Apply(models.Category{Visible: true})
	if c.Name == "" || len(c.Name) > core.MaxNameLen {
		return models.Category{}, core.ErrInvalidCategory
	}
	c.ID = strings.TrimSpace(in.ID)
	if c.ID == "" {
		c.ID = Slug(c.Name)
	}
	if c.ID == "" {
		return models.Category{}, core.ErrInvalidCategory
	}

	created, err := cs.categories.Create(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Category{}, core.ErrCategoryExists
	}
	if err != nil {
		mylog.Error("Failed to create category", err)
		return models.Category{}, fmt.Errorf("cannot create category: %w", err)
	}
	mylog.Info("Category created", "category_id", created.ID)
	return created, nil
}

func (cs *CategoryService) Update(ctx context.Context, id string, in dto.CategoryInput) (models.Category, error) {
	current, err := cs.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	c := in.Apply(current)
	if c.Name == "" || len(c.Name) > core.MaxNameLen {
		return models.Category{}, core.ErrInvalidCategory
	}
	updated, err := cs.categories.Update(ctx, c)
	if errors.Is(err, store.ErrNotFound) {
		return models.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		cs.mylog.Action("update_category").Error("Failed to update category", err, "category_id", id)
		return models.Category{}, fmt.Errorf("cannot update category: %w", err)
	}
	return updated, nil
}

// Delete refuses to remove a category that still has products.
func (cs *CategoryService) Delete(ctx context.Context, id string) error {
	mylog := cs.mylog.Action("delete_category").With("category_id", id)

	counts, err := cs.products.CountByCategory(ctx)
	if err != nil {
		mylog.Error("Failed to count products", err)
		return fmt.Errorf("cannot count products: %w", err)
	}
	if counts[id] > 0 {
		return core.ErrCategoryInUse
	}

	err = cs.categories.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrCategoryNotFound
	}
	if err != nil {
		mylog.Error("Failed to delete category", err)
		return fmt.Errorf("cannot delete category: %w", err)
	}
	mylog.Info("Category deleted")
	return nil
}

// ProductCounts lists every category with its number of products.
func (cs *CategoryService) ProductCounts(ctx context.Context) ([]dto.CategoryCount, error) {
	cats, err := cs.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := cs.products.CountByCategory(ctx)
	if err != nil {
		cs.mylog.Action("category_counts").Error("Failed to count products", err)
		return nil, fmt.Errorf("cannot count products: %w", err)
	}
	out := make([]dto.CategoryCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryCount{Category: c, Products: counts[c.ID]})
	}
	return out, nil
}

// Slug lowercases name, folds French accents and joins words with dashes.
func Slug(name string) string {
	s := accents.Replace(strings.ToLower(strings.TrimSpace(name)))
	return strings.Trim(slugSeparators.ReplaceAllString(s, "-"), "-")
}
