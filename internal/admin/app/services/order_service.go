package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/broker"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type OrderService struct {
	orders  core.IOrderRepo
	pub     core.IPublisher
	metrics *metrics.Metrics
	mylog   logger.Logger
}

func NewOrderService(orders core.IOrderRepo, pub core.IPublisher, m *metrics.Metrics, mylog logger.Logger) *OrderService {
	return &OrderService{orders: orders, pub: pub, metrics: m, mylog: mylog}
}

// List returns orders newest first. Customer matches the user id exactly
// or a part of the customer's email or name.
func (os *OrderService) List(ctx context.Context, q dto.OrderQuery) ([]models.Order, error) {
	f := models.OrderFilter{Limit: q.Limit}
	if q.Status != "" {
		st, err := models.ParseOrderStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	customer := strings.ToLower(strings.TrimSpace(q.Customer))
	if customer != "" {
		f.Limit = 0
	}

	orders, err := os.orders.List(ctx, f)
	if err != nil {
		os.mylog.Action("list_orders").Error("Failed to list orders", err)
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if customer != "" && !matchesCustomer(o, customer) {
			continue
		}
		out = append(out, o)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func matchesCustomer(o models.Order, term string) bool {
	return strings.ToLower(o.UserID) == term ||
		strings.Contains(strings.ToLower(o.UserEmail), term) ||
		strings.Contains(strings.ToLower(o.UserName), term)
}

func (os *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	o, err := os.orders.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, core.ErrOrderNotFound
	}
	if err != nil {
		os.mylog.Action("get_order").Error("Failed to get order", err, "order_id", id)
		return models.Order{}, fmt.Errorf("cannot get order: %w", err)
	}
	return o, nil
}

func (os *OrderService) History(ctx context.Context, id string) ([]models.StatusChange, error) {
	if _, err := os.Get(ctx, id); err != nil {
		return nil, err
	}
	changes, err := os.orders.History(ctx, id)
	if err != nil {
		os.mylog.Action("order_history").Error("Failed to load history", err, "order_id", id)
		return nil, fmt.Errorf("cannot load history: %w", err)
	}
	if changes == nil {
		changes = []models.StatusChange{}
	}
	return changes, nil
}

// Update sets the status and/or niveau of an order, then publishes one
// event per field that actually changed.
func (os *OrderService) Update(ctx context.Context, id string, patch dto.OrderPatch) (dto.OrderUpdateResult, error) {
	mylog := os.mylog.Action("update_order").With("order_id", id)

	var u models.OrderUpdate
	if s := strings.TrimSpace(patch.Status); s != "" {
		st, err := models.ParseOrderStatus(s)
		if err != nil {
			return dto.OrderUpdateResult{}, err
		}
		u.Status = &st
	}
	if n := strings.TrimSpace(patch.Niveau); n != "" {
		nv, err := models.ParseNiveau(n)
		if err != nil {
			return dto.OrderUpdateResult{}, err
		}
		u.Niveau = &nv
	}
	if u.Status == nil && u.Niveau == nil {
		return dto.OrderUpdateResult{}, core.ErrEmptyUpdate
	}

	_, next, changes, err := os.orders.Update(ctx, id, u, core.ChangedBy)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return dto.OrderUpdateResult{}, core.ErrOrderNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		mylog.Warn("Rejected status transition", "error", err.Error())
		return dto.OrderUpdateResult{}, err
	case err != nil:
		mylog.Error("Failed to update order", err)
		return dto.OrderUpdateResult{}, fmt.Errorf("cannot update order: %w", err)
	}

	for _, c := range changes {
		os.metrics.OrderChanges.WithLabelValues(c.Field).Inc()
	}
	sent := broker.PublishOrderChanges(ctx, os.pub, next, changes, mylog)
	mylog.Info("Order updated", "status", next.Status.String(), "niveau", next.Niveau.String(), "changes", len(changes))

	if changes == nil {
		changes = []models.StatusChange{}
	}
	return dto.OrderUpdateResult{Order: next, Changes: changes, Published: sent}, nil
}

func (os *OrderService) Delete(ctx context.Context, id string) error {
	err := os.orders.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrOrderNotFound
	}
	if err != nil {
		os.mylog.Action("delete_order").Error("Failed to delete order", err, "order_id", id)
		return fmt.Errorf("cannot delete order: %w", err)
	}
	os.mylog.Action("delete_order").Info("Order deleted", "order_id", id)
	return nil
}
