package models

import "time"

const (
	RoutingOrderStatus   = "order.status"
	RoutingOrderNiveau   = "order.niveau"
	RoutingPasswordReset = "auth.password_reset"
)

// OrderUpdateMessage travels on the broker whenever an order's status or
// niveau changes.
type OrderUpdateMessage struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	Field       string    `json:"field"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	ChangedBy   string    `json:"changed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m OrderUpdateMessage) RoutingKey() string {
	if m.Field == FieldNiveau {
		return RoutingOrderNiveau
	}
	return RoutingOrderStatus
}

// UpdateMessages turns the history rows of an order into broker messages.
func UpdateMessages(o Order, changes []StatusChange) []OrderUpdateMessage {
	out := make([]OrderUpdateMessage, 0, len(changes))
	for _, c := range changes {
		out = append(out, OrderUpdateMessage{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			Field:       c.Field,
			OldValue:    c.OldValue,
			NewValue:    c.NewValue,
			ChangedBy:   c.ChangedBy,
			Timestamp:   c.ChangedAt,
		})
	}
	return out
}

type PasswordResetMessage struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}
