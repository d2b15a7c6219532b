package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   string    `json:"orderId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	statusTitle = "Statut de commande mis à jour"
	niveauTitle = "Niveau de commande mis à jour"
)

// NotificationFor builds the customer notification for an order update.
// Only status and niveau changes produce one.
func NotificationFor(msg OrderUpdateMessage) (Notification, bool) {
	n := Notification{
		UserID:    msg.UserID,
		OrderID:   msg.OrderID,
		CreatedAt: msg.Timestamp,
	}
	switch msg.Field {
	case FieldStatus:
		n.Title = statusTitle
		n.Message = "Le statut de votre commande a été changé en : " + msg.NewValue
	case FieldNiveau:
		n.Title = niveauTitle
		n.Message = "Le niveau de votre commande a été changé en : " + msg.NewValue
	default:
		return Notification{}, false
	}
	return n, true
}
