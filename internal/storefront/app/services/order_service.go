package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/broker"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type OrderService struct {
	orders  core.IOrderRepo
	users   core.IUserRepo
	basket  *BasketService
	pub     core.IPublisher
	metrics *metrics.Metrics
	mylog   logger.Logger
	now     func() time.Time
}

func NewOrderService(
	orders core.IOrderRepo,
	users core.IUserRepo,
	basket *BasketService,
	pub core.IPublisher,
	m *metrics.Metrics,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		users:   users,
		basket:  basket,
		pub:     pub,
		metrics: m,
		mylog:   mylog,
		now:     time.Now,
	}
}

// Checkout turns the owner's cart into an order awaiting confirmation. A
// user who already has such an order is sent back to it instead.
func (os *OrderService) Checkout(ctx context.Context, owner Owner, req dto.CheckoutRequest) (dto.CheckoutResult, error) {
	mylog := os.mylog.Action("checkout").With("user_id", owner.UserID)

	pending, err := os.orders.FindPending(ctx, owner.UserID)
	switch {
	case err == nil:
		mylog.Info("Pending order already exists", "order_id", pending.ID)
		return dto.CheckoutResult{Order: pending, Created: false, Redirect: "/checkout/" + pending.ID}, nil
	case !errors.Is(err, store.ErrNotFound):
		mylog.Error("Failed to look up pending order", err)
		return dto.CheckoutResult{}, fmt.Errorf("cannot look up pending order: %w", err)
	}

	cart, key, err := os.basket.loadCart(ctx, owner)
	if err != nil {
		return dto.CheckoutResult{}, err
	}
	if cart.IsEmpty() {
		return dto.CheckoutResult{}, core.ErrEmptyCart
	}

	delivery, err := parseDelivery(req.DeliveryMethod)
	if err != nil {
		return dto.CheckoutResult{}, err
	}
	payment, err := parsePayment(req.PaymentMethod)
	if err != nil {
		return dto.CheckoutResult{}, err
	}

	user, err := os.users.Get(ctx, owner.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return dto.CheckoutResult{}, core.ErrUserNotFound
	}
	if err != nil {
		mylog.Error("Failed to load user", err)
		return dto.CheckoutResult{}, fmt.Errorf("cannot load user: %w", err)
	}

	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		if def, ok := user.DefaultAddress(); ok {
			address = def.Line()
		}
	}
	if delivery == models.DeliveryPickup {
		address = ""
	}
	if len(address) > core.MaxAddressLen {
		return dto.CheckoutResult{}, core.ErrAddressTooLong
	}

	order := models.Order{
		OrderNumber:           fmt.Sprintf("CMD-%d", os.now().UnixMilli()),
		UserID:                user.UID,
		UserEmail:             user.Email,
		UserName:              user.Name,
		Items:                 cart.Items,
		Subtotal:              cart.Subtotal(),
		DeliveryFee:           cart.DeliveryFee(),
		Total:                 cart.Total(),
		DeliveryMethod:        delivery,
		DeliveryAddress:       address,
		PaymentMethod:         payment,
		Status:                models.StatusPending,
		EstimatedDeliveryTime: delivery.EstimatedTime(),
	}

	created, err := os.orders.Create(ctx, order, core.ChangedBy)
	if err != nil {
		mylog.Error("Failed to save order", err)
		return dto.CheckoutResult{}, fmt.Errorf("cannot save order: %w", err)
	}
	os.metrics.OrdersCreated.Inc()

	if err := os.basket.session.Delete(ctx, key); err != nil {
		mylog.Warn("Failed to clear cart after checkout", "key", key, "error", err.Error())
	}

	mylog.Info("Order created", "order_id", created.ID, "order_number", created.OrderNumber, "total", created.Total)
	return dto.CheckoutResult{Order: created, Created: true, Redirect: "/track-order/" + created.ID}, nil
}

// Confirm moves the caller's pending order to confirmé with the final
// delivery and payment choices.
func (os *OrderService) Confirm(ctx context.Context, owner Owner, id string, req dto.ConfirmRequest) (dto.ConfirmResult, error) {
	mylog := os.mylog.Action("confirm_order").With("user_id", owner.UserID, "order_id", id)

	o, err := os.orders.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return dto.ConfirmResult{}, core.ErrOrderNotFound
	}
	if err != nil {
		mylog.Error("Failed to load order", err)
		return dto.ConfirmResult{}, fmt.Errorf("cannot load order: %w", err)
	}
	if o.UserID != owner.UserID {
		return dto.ConfirmResult{}, core.ErrOrderNotFound
	}
	if o.Status != models.StatusPending {
		return dto.ConfirmResult{}, core.ErrOrderNotPending
	}

	delivery := o.DeliveryMethod
	if req.DeliveryMethod != "" {
		if delivery, err = parseDelivery(req.DeliveryMethod); err != nil {
			return dto.ConfirmResult{}, err
		}
	}
	payment := o.PaymentMethod
	if req.PaymentMethod != "" {
		if payment, err = parsePayment(req.PaymentMethod); err != nil {
			return dto.ConfirmResult{}, err
		}
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		address = o.DeliveryAddress
	}
	if delivery == models.DeliveryPickup {
		address = ""
	}
	if delivery == models.DeliveryHome && address == "" {
		return dto.ConfirmResult{}, core.ErrAddressRequired
	}

	status := models.StatusConfirmed
	_, next, changes, err := os.orders.Update(ctx, id, models.OrderUpdate{
		Status:          &status,
		DeliveryMethod:  &delivery,
		DeliveryAddress: &address,
		PaymentMethod:   &payment,
	}, core.ChangedBy)
	if errors.Is(err, models.ErrInvalidTransition) {
		return dto.ConfirmResult{}, core.ErrOrderNotPending
	}
	if errors.Is(err, store.ErrNotFound) {
		return dto.ConfirmResult{}, core.ErrOrderNotFound
	}
	if err != nil {
		mylog.Error("Failed to confirm order", err)
		return dto.ConfirmResult{}, fmt.Errorf("cannot confirm order: %w", err)
	}
	os.metrics.OrdersConfirmed.Inc()
	for _, c := range changes {
		os.metrics.OrderChanges.WithLabelValues(c.Field).Inc()
	}

	broker.PublishOrderChanges(ctx, os.pub, next, changes, mylog)

	if err := os.basket.RemoveFromCartByIDs(ctx, owner, next.ItemIDs()); err != nil {
		mylog.Warn("Failed to drop confirmed items from cart", "error", err.Error())
	}

	mylog.Info("Order confirmed", "order_number", next.OrderNumber, "payment", next.PaymentMethod)
	return dto.ConfirmResult{Order: next, Redirect: "/track-order/" + next.ID}, nil
}

func (os *OrderService) ListMine(ctx context.Context, uid, status string) ([]models.Order, error) {
	f := models.OrderFilter{UserID: uid}
	if status != "" {
		s, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = s
	}
	orders, err := os.orders.List(ctx, f)
	if err != nil {
		os.mylog.Action("list_orders").Error("Failed to list orders", err, "user_id", uid)
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	return orders, nil
}

// Get returns the order when the caller owns it or is an admin.
func (os *OrderService) Get(ctx context.Context, who auth.Identity, id string) (models.Order, error) {
	o, err := os.orders.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, core.ErrOrderNotFound
	}
	if err != nil {
		os.mylog.Action("get_order").Error("Failed to load order", err, "order_id", id)
		return models.Order{}, fmt.Errorf("cannot load order: %w", err)
	}
	if o.UserID != who.UID && !who.IsAdmin() {
		return models.Order{}, core.ErrOrderNotFound
	}
	return o, nil
}

func (os *OrderService) Tracking(ctx context.Context, who auth.Identity, id string) (dto.TrackingView, error) {
	o, err := os.Get(ctx, who, id)
	if err != nil {
		return dto.TrackingView{}, err
	}
	return dto.NewTrackingView(o), nil
}

func (os *OrderService) History(ctx context.Context, who auth.Identity, id string) ([]dto.HistoryEntry, error) {
	if _, err := os.Get(ctx, who, id); err != nil {
		return nil, err
	}
	changes, err := os.orders.History(ctx, id)
	if err != nil {
		os.mylog.Action("order_history").Error("Failed to load history", err, "order_id", id)
		return nil, fmt.Errorf("cannot load history: %w", err)
	}
	out := make([]dto.HistoryEntry, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.HistoryEntry{
			Field:     c.Field,
			Value:     c.NewValue,
			Timestamp: c.ChangedAt.UTC().Format(time.RFC3339),
			ChangedBy: c.ChangedBy,
		})
	}
	return out, nil
}

func parseDelivery(s string) (models.DeliveryMethod, error) {
	switch models.DeliveryMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", models.DeliveryHome:
		return models.DeliveryHome, nil
	case models.DeliveryPickup:
		return models.DeliveryPickup, nil
	default:
		return "", core.ErrInvalidDelivery
	}
}

func parsePayment(s string) (models.PaymentMethod, error) {
	switch p := models.PaymentMethod(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return models.PaymentCash, nil
	case models.PaymentCash, models.PaymentCard, models.PaymentMobileMoney:
		return p, nil
	default:
		return "", core.ErrInvalidPayment
	}
}
