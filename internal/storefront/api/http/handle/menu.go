package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type MenuHandler struct {
	menuService *services.MenuService
	mylog       logger.Logger
}

func NewMenuHandler(menuService *services.MenuService, mylog logger.Logger) *MenuHandler {
	return &MenuHandler{menuService: menuService, mylog: mylog}
}

func (mh *MenuHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		cats, err := mh.menuService.Categories(ctx)
		if err != nil {
			fail(w, mh.mylog.Action("list_categories"), err)
			return
		}
		if cats == nil {
			cats = []models.Category{}
		}
		httpx.JSON(w, http.StatusOK, cats)
	}
}

// Products serves GET /products?category=&available=&special=&q=
func (mh *MenuHandler) Products() http.HandlerFunc {
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

		products, err := mh.menuService.Products(ctx, filter)
		if err != nil {
			fail(w, mh.mylog.Action("list_products"), err)
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		httpx.JSON(w, http.StatusOK, products)
	}
}

func (mh *MenuHandler) Product() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		p, err := mh.menuService.Product(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, mh.mylog.Action("get_product"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}

func (mh *MenuHandler) DailySpecials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		products, err := mh.menuService.DailySpecials(ctx)
		if err != nil {
			fail(w, mh.mylog.Action("daily_specials"), err)
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		httpx.JSON(w, http.StatusOK, products)
	}
}

func (mh *MenuHandler) Menu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		sections, err := mh.menuService.Menu(ctx)
		if err != nil {
			fail(w, mh.mylog.Action("menu"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, sections)
	}
}
