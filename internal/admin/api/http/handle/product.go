package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type ProductHandler struct {
	productService *services.ProductService
	mylog          logger.Logger
}

func NewProductHandler(productService *services.ProductService, mylog logger.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, mylog: mylog}
}

func (ph *ProductHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available, err := boolParam(r, "available")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		special, err := boolParam(r, "special")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		q := r.URL.Query()
		filter := models.ProductFilter{
			Category:  q.Get("category"),
			Available: available,
			Special:   special,
			Search:    q.Get("q"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		products, err := ph.productService.List(ctx, filter)
		if err != nil {
			fail(w, ph.mylog.Action("list_products"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, products)
	}
}

func (ph *ProductHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		p, err := ph.productService.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, ph.mylog.Action("get_product"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}

func (ph *ProductHandler) Count() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		n, err := ph.productService.Count(ctx)
		if err != nil {
			fail(w, ph.mylog.Action("count_products"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]int{"count": n})
	}
}

// Create accepts JSON or a multipart form with an optional "image" file.
func (ph *ProductHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, img, closer, err := productForm(w, r)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		p, err := ph.productService.Create(ctx, in, img)
		if err != nil {
			fail(w, ph.mylog.Action("create_product"), err)
			return
		}
		httpx.JSON(w, http.StatusCreated, p)
	}
}

func (ph *ProductHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, img, closer, err := productForm(w, r)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		p, err := ph.productService.Update(ctx, chi.URLParam(r, "id"), in, img)
		if err != nil {
			fail(w, ph.mylog.Action("update_product"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}

func (ph *ProductHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ph.productService.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			fail(w, ph.mylog.Action("delete_product"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ph *ProductHandler) ToggleAvailable() http.HandlerFunc {
	return ph.toggle("toggle_available", ph.productService.ToggleAvailable)
}

func (ph *ProductHandler) ToggleSpecial() http.HandlerFunc {
	return ph.toggle("toggle_special", ph.productService.ToggleSpecial)
}

func (ph *ProductHandler) toggle(action string, op func(context.Context, string) (models.Product, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		p, err := op(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, ph.mylog.Action(action), err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}
