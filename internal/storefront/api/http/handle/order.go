package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/app/services"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, mylog: mylog}
}

func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CheckoutRequest
		if err := httpx.DecodeOptional(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		res, err := oh.orderService.Checkout(ctx, ownerOf(r), req)
		if err != nil {
			fail(w, oh.mylog.Action("checkout"), err)
			return
		}
		code := http.StatusCreated
		if !res.Created {
			code = http.StatusOK
		}
		httpx.JSON(w, code, res)
	}
}

func (oh *OrderHandler) Confirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ConfirmRequest
		if err := httpx.DecodeOptional(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		res, err := oh.orderService.Confirm(ctx, ownerOf(r), chi.URLParam(r, "id"), req)
		if err != nil {
			fail(w, oh.mylog.Action("confirm_order"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, res)
	}
}

func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := oh.orderService.ListMine(ctx, identity(r).UID, r.URL.Query().Get("status"))
		if err != nil {
			fail(w, oh.mylog.Action("list_orders"), err)
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		httpx.JSON(w, http.StatusOK, orders)
	}
}

func (oh *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		o, err := oh.orderService.Get(ctx, identity(r), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, oh.mylog.Action("get_order"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, o)
	}
}

func (oh *OrderHandler) Tracking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		view, err := oh.orderService.Tracking(ctx, identity(r), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, oh.mylog.Action("track_order"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, view)
	}
}

func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		entries, err := oh.orderService.History(ctx, identity(r), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, oh.mylog.Action("order_history"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, entries)
	}
}
