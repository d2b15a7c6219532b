package handle

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, mylog: mylog}
}

// List serves GET /admin/orders?status=&customer=&limit=
func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := dto.OrderQuery{Status: q.Get("status"), Customer: q.Get("customer")}
		if raw := q.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				httpx.Error(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
				return
			}
			query.Limit = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := oh.orderService.List(ctx, query)
		if err != nil {
			fail(w, oh.mylog.Action("list_orders"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, orders)
	}
}

func (oh *OrderHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		o, err := oh.orderService.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, oh.mylog.Action("get_order"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, o)
	}
}

func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		changes, err := oh.orderService.History(ctx, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, oh.mylog.Action("order_history"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, changes)
	}
}

func (oh *OrderHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch dto.OrderPatch
		if err := httpx.Decode(r, &patch); err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		res, err := oh.orderService.Update(ctx, chi.URLParam(r, "id"), patch)
		if err != nil {
			fail(w, oh.mylog.Action("update_order"), err)
			return
		}
		httpx.JSON(w, http.StatusOK, res)
	}
}

func (oh *OrderHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := oh.orderService.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			fail(w, oh.mylog.Action("delete_order"), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
