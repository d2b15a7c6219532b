package services

import (
	"context"
	"errors"
	"fmt"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type ProductService struct {
	products   core.IProductRepo
	categories core.ICategoryRepo
	media      core.IMedia
	mylog      logger.Logger
}

func NewProductService(products core.IProductRepo, categories core.ICategoryRepo, m core.IMedia, mylog logger.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, media: m, mylog: mylog}
}

func (ps *ProductService) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	products, err := ps.products.List(ctx, f)
	if err != nil {
		ps.mylog.Action("list_products").Error("Failed to list products", err)
		return nil, fmt.Errorf("cannot list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (ps *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	p, err := ps.products.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, core.ErrProductNotFound
	}
	if err != nil {
		ps.mylog.Action("get_product").Error("Failed to get product", err, "product_id", id)
		return models.Product{}, fmt.Errorf("cannot get product: %w", err)
	}
	return p, nil
}

func (ps *ProductService) Count(ctx context.Context) (int, error) {
	n, err := ps.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot count products: %w", err)
	}
	return n, nil
}

// Create stores a new product. New products are available unless the
// input says otherwise.
func (ps *ProductService) Create(ctx context.Context, in dto.ProductInput, img *dto.Image) (models.Product, error) {
	mylog := ps.mylog.Action("create_product")

	p := in.Apply(models.Product{Available: true})
	if err := ps.validate(ctx, p); err != nil {
		return models.Product{}, err
	}

	if img != nil {
		url, err := ps.upload(ctx, img)
		if err != nil {
			return models.Product{}, err
		}
		p.Image = url
	}

	created, err := ps.products.Create(ctx, p)
	if err != nil {
		mylog.Error("Failed to create product", err)
		ps.discard(ctx, mylog, img, p.Image)
		return models.Product{}, fmt.Errorf("cannot create product: %w", err)
	}
	mylog.Info("Product created", "product_id", created.ID)
	return created, nil
}

// Update applies in to the product. A new image replaces the stored one,
// which is then deleted.
func (ps *ProductService) Update(ctx context.Context, id string, in dto.ProductInput, img *dto.Image) (models.Product, error) {
	mylog := ps.mylog.Action("update_product").With("product_id", id)

	current, err := ps.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p := in.Apply(current)
	if err := ps.validate(ctx, p); err != nil {
		return models.Product{}, err
	}

	if img != nil {
		url, err := ps.upload(ctx, img)
		if err != nil {
			return models.Product{}, err
		}
		p.Image = url
	}

	updated, err := ps.products.Update(ctx, p)
	if err != nil {
		mylog.Error("Failed to update product", err)
		ps.discard(ctx, mylog, img, p.Image)
		if errors.Is(err, store.ErrNotFound) {
			return models.Product{}, core.ErrProductNotFound
		}
		return models.Product{}, fmt.Errorf("cannot update product: %w", err)
	}

	if current.Image != "" && current.Image != updated.Image {
		if err := ps.media.Delete(ctx, current.Image); err != nil {
			mylog.Warn("Failed to delete previous image", "url", current.Image, "error", err.Error())
		}
	}
	mylog.Info("Product updated")
	return updated, nil
}

// Delete removes the product and its image.
func (ps *ProductService) Delete(ctx context.Context, id string) error {
	mylog := ps.mylog.Action("delete_product").With("product_id", id)

	deleted, err := ps.products.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrProductNotFound
	}
	if err != nil {
		mylog.Error("Failed to delete product", err)
		return fmt.Errorf("cannot delete product: %w", err)
	}
	if deleted.Image != "" {
		if err := ps.media.Delete(ctx, deleted.Image); err != nil {
			mylog.Warn("Failed to delete product image", "url", deleted.Image, "error", err.Error())
		}
	}
	mylog.Info("Product deleted")
	return nil
}

func (ps *ProductService) ToggleAvailable(ctx context.Context, id string) (models.Product, error) {
	return ps.toggle(ctx, "toggle_available", id, ps.products.ToggleAvailable)
}

func (ps *ProductService) ToggleSpecial(ctx context.Context, id string) (models.Product, error) {
	return ps.toggle(ctx, "toggle_special", id, ps.products.ToggleSpecial)
}

func (ps *ProductService) toggle(ctx context.Context, action, id string, op func(context.Context, string) (models.Product, error)) (models.Product, error) {
	p, err := op(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, core.ErrProductNotFound
	}
	if err != nil {
		ps.mylog.Action(action).Error("Failed to toggle product flag", err, "product_id", id)
		return models.Product{}, fmt.Errorf("cannot update product: %w", err)
	}
	return p, nil
}

func (ps *ProductService) validate(ctx context.Context, p models.Product) error {
	if p.Name == "" || len(p.Name) > core.MaxNameLen || p.Category == "" || p.Price < 0 {
		return core.ErrInvalidProduct
	}
	if _, err := ps.categories.Get(ctx, p.Category); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.ErrCategoryNotFound
		}
		return fmt.Errorf("cannot check category: %w", err)
	}
	return nil
}

func (ps *ProductService) upload(ctx context.Context, img *dto.Image) (string, error) {
	url, err := ps.media.Upload(ctx, media.FolderProducts, img.ContentType, img.Body)
	if errors.Is(err, media.ErrUnsupportedType) {
		return "", core.ErrInvalidImage
	}
	if err != nil {
		ps.mylog.Action("upload_product_image").Error("Failed to upload image", err)
		return "", fmt.Errorf("cannot upload image: %w", err)
	}
	return url, nil
}

// discard drops an image uploaded for a write that did not go through.
func (ps *ProductService) discard(ctx context.Context, mylog logger.Logger, img *dto.Image, url string) {
	if img == nil || url == "" {
		return
	}
	if err := ps.media.Delete(ctx, url); err != nil {
		mylog.Warn("Failed to delete orphan image", "url", url, "error", err.Error())
	}
}
