package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	mylog           logger.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, mylog logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, mylog: mylog}
}

func (ch *CategoryHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		cats, err := ch.categoryService.List(ctx)
		if err != nil {
			fail(w, ch.mylog.Action("list_categories"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, cats)
	}
}

func (ch *CategoryHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		c, err := ch.categoryService.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, ch.mylog.Action("get_category"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, c)
	}
}

func (ch *CategoryHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.CategoryInput
		if err := httpx.Decode(r, &in); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		c, err := ch.categoryService.Create(ctx, in)
		if err != nil {
			fail(w, ch.mylog.Action("create_category"), err)
			return
		}
		httpx.JSON(w, http.StatusCreated, c)
	}
}

func (ch *CategoryHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dto.CategoryInput
		if err := httpx.Decode(r, &in); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		c, err := ch.categoryService.Update(ctx, chi.URLParam(r, "id"), in)
		if err != nil {
			fail(w, ch.mylog.Action("update_category"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, c)
	}
}

func (ch *CategoryHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := ch.categoryService.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			fail(w, ch.mylog.Action("delete_category"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (ch *CategoryHandler) ProductCounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		counts, err := ch.categoryService.ProductCounts(ctx)
		if err != nil {
			fail(w, ch.mylog.Action("category_counts"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, counts)
	}
}
