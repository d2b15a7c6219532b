package models

import "time"

type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "delivery"
	DeliveryPickup DeliveryMethod = "pickup"
)

func (d DeliveryMethod) EstimatedTime() string {
	if d == DeliveryHome {
		return "45-60 minutes"
	}
	return "20-30 minutes"
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile-money"
)

type Order struct {
	ID                    string         `json:"id"`
	OrderNumber           string         `json:"orderNumber"`
	UserID                string         `json:"userId"`
	UserEmail             string         `json:"userEmail"`
	UserName              string         `json:"userName"`
	Items                 []LineItem     `json:"items"`
	Subtotal              float64        `json:"subtotal"`
	DeliveryFee           float64        `json:"deliveryFee"`
	Total                 float64        `json:"total"`
	DeliveryMethod        DeliveryMethod `json:"deliveryMethod"`
	DeliveryAddress       string         `json:"deliveryAddress,omitempty"`
	PaymentMethod         PaymentMethod  `json:"paymentMethod"`
	Status                OrderStatus    `json:"status"`
	Niveau                Niveau         `json:"niveau,omitempty"`
	EstimatedDeliveryTime string         `json:"estimatedDeliveryTime"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

// ItemIDs lists the ids of the order's top-level items.
func (o Order) ItemIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

// OrderUpdate is a partial order change. Nil fields are left untouched.
type OrderUpdate struct {
	Status          *OrderStatus
	Niveau          *Niveau
	DeliveryMethod  *DeliveryMethod
	DeliveryAddress *string
	PaymentMethod   *PaymentMethod
}

func (u OrderUpdate) Apply(o Order) Order {
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.Niveau != nil {
		o.Niveau = *u.Niveau
	}
	if u.DeliveryMethod != nil {
		o.DeliveryMethod = *u.DeliveryMethod
		o.EstimatedDeliveryTime = u.DeliveryMethod.EstimatedTime()
	}
	if u.DeliveryAddress != nil {
		o.DeliveryAddress = *u.DeliveryAddress
	}
	if u.PaymentMethod != nil {
		o.PaymentMethod = *u.PaymentMethod
	}
	return o
}

// StatusChange is one row of an order's history.
type StatusChange struct {
	OrderID   string    `json:"orderId"`
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

const (
	FieldStatus = "status"
	FieldNiveau = "niveau"
)

// Changes lists the status and niveau differences between two versions of
// the same order.
func Changes(prev, next Order, changedBy string, at time.Time) []StatusChange {
	var out []StatusChange
	if prev.Niveau != next.Niveau {
		out = append(out, StatusChange{
			OrderID: next.ID, Field: FieldNiveau,
			OldValue: prev.Niveau.String(), NewValue: next.Niveau.String(),
			ChangedBy: changedBy, ChangedAt: at,
		})
	}
	if prev.Status != next.Status {
		out = append(out, StatusChange{
			OrderID: next.ID, Field: FieldStatus,
			OldValue: prev.Status.String(), NewValue: next.Status.String(),
			ChangedBy: changedBy, ChangedAt: at,
		})
	}
	return out
}

type OrderFilter struct {
	UserID string
	Status OrderStatus
	Limit  int
	Since  time.Time
}
