package dto

import (
	"blueberry/internal/xpkg/basket"
	"blueberry/internal/xpkg/models"
)

type ProductRef struct {
	ProductID string `json:"productId"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartView struct {
	Items          []models.LineItem `json:"items"`
	Count          int               `json:"count"`
	Subtotal       float64           `json:"subtotal"`
	DeliveryFee    float64           `json:"deliveryFee"`
	Total          float64           `json:"total"`
	PendingOrderID string            `json:"pendingOrderId,omitempty"`
}

func NewCartView(c *basket.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []models.LineItem{}
	}
	return CartView{
		Items:       items,
		Count:       c.Count(),
		Subtotal:    c.Subtotal(),
		DeliveryFee: c.DeliveryFee(),
		Total:       c.Total(),
	}
}

type PlateauView struct {
	Items  []models.LineItem `json:"items"`
	Groups []basket.Group    `json:"groups"`
	Total  float64           `json:"total"`
}

func NewPlateauView(p *basket.Plateau) PlateauView {
	v := PlateauView{Items: p.Items, Groups: p.Groups(), Total: p.Total()}
	if v.Items == nil {
		v.Items = []models.LineItem{}
	}
	if v.Groups == nil {
		v.Groups = []basket.Group{}
	}
	return v
}

type MenuSection struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}
