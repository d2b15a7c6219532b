package dto

import (
	"time"

	"blueberry/internal/xpkg/models"
)

type CheckoutRequest struct {
	DeliveryMethod  string `json:"deliveryMethod"`
	PaymentMethod   string `json:"paymentMethod"`
	DeliveryAddress string `json:"deliveryAddress"`
}

type CheckoutResult struct {
	Order    models.Order `json:"order"`
	Created  bool         `json:"created"`
	Redirect string       `json:"redirect"`
}

type ConfirmRequest struct {
	DeliveryMethod  string `json:"deliveryMethod"`
	PaymentMethod   string `json:"paymentMethod"`
	DeliveryAddress string `json:"deliveryAddress"`
}

type ConfirmResult struct {
	Order    models.Order `json:"order"`
	Redirect string       `json:"redirect"`
}

type TrackingStep struct {
	Label     models.Niveau `json:"label"`
	Completed bool          `json:"completed"`
	Current   bool          `json:"current"`
}

type TrackingView struct {
	OrderID               string             `json:"orderId"`
	OrderNumber           string             `json:"orderNumber"`
	Status                models.OrderStatus `json:"status"`
	Niveau                models.Niveau      `json:"niveau"`
	Progress              int                `json:"progress"`
	Steps                 []TrackingStep     `json:"steps"`
	EstimatedDeliveryTime string             `json:"estimatedDeliveryTime"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// NewTrackingView lays the order's niveau over the fixed tracking steps.
func NewTrackingView(o models.Order) TrackingView {
	current := o.Niveau.Step()
	steps := make([]TrackingStep, len(models.Niveaux))
	for i, n := range models.Niveaux {
		steps[i] = TrackingStep{Label: n, Completed: i <= current, Current: i == current}
	}
	niveau := o.Niveau
	if niveau == "" {
		niveau = models.Niveaux[current]
	}
	return TrackingView{
		OrderID:               o.ID,
		OrderNumber:           o.OrderNumber,
		Status:                o.Status,
		Niveau:                niveau,
		Progress:              o.Niveau.Progress(),
		Steps:                 steps,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		UpdatedAt:             o.UpdatedAt,
	}
}

type HistoryEntry struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
	ChangedBy string `json:"changedBy"`
}
