package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type MenuService struct {
	products   core.IProductRepo
	categories core.ICategoryRepo
	mylog      logger.Logger
}

func NewMenuService(products core.IProductRepo, categories core.ICategoryRepo, mylog logger.Logger) *MenuService {
	return &MenuService{products: products, categories: categories, mylog: mylog}
}

// Categories returns the visible categories in display order.
func (ms *MenuService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := ms.categories.List(ctx, true)
	if err != nil {
		ms.mylog.Action("list_categories").Error("Failed to list categories", err)
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	return cats, nil
}

func (ms *MenuService) Products(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	products, err := ms.products.List(ctx, f)
	if err != nil {
		ms.mylog.Action("list_products").Error("Failed to list products", err, "category", f.Category)
		return nil, fmt.Errorf("cannot list products: %w", err)
	}
	return products, nil
}

func (ms *MenuService) Product(ctx context.Context, id string) (models.Product, error) {
	p, err := ms.products.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, core.ErrProductNotFound
	}
	if err != nil {
		ms.mylog.Action("get_product").Error("Failed to get product", err, "product_id", id)
		return models.Product{}, fmt.Errorf("cannot get product: %w", err)
	}
	return p, nil
}

// DailySpecials lists the products flagged special that can be ordered.
func (ms *MenuService) DailySpecials(ctx context.Context) ([]models.Product, error) {
	yes := true
	return ms.Products(ctx, models.ProductFilter{Special: &yes, Available: &yes})
}

// Menu groups the available products under their visible category.
// Categories without available products are left out.
func (ms *MenuService) Menu(ctx context.Context) ([]dto.MenuSection, error) {
	var (
		cats     []models.Category
		products []models.Product
	)
	yes := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cats, err = ms.categories.List(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		products, err = ms.products.List(gctx, models.ProductFilter{Available: &yes})
		return err
	})
	if err := g.Wait(); err != nil {
		ms.mylog.Action("build_menu").Error("Failed to load menu", err)
		return nil, fmt.Errorf("cannot load menu: %w", err)
	}

	byCategory := make(map[string][]models.Product, len(cats))
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	sections := make([]dto.MenuSection, 0, len(cats))
	for _, c := range cats {
		if ps := byCategory[c.ID]; len(ps) > 0 {
			sections = append(sections, dto.MenuSection{Category: c, Products: ps})
		}
	}
	return sections, nil
}
