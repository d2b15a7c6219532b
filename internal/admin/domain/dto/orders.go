package dto

import "blueberry/internal/xpkg/models"

type OrderPatch struct {
	Status string `json:"status"`
	Niveau string `json:"niveau"`
}

type OrderQuery struct {
	Status   string
	Customer string
	Limit    int
}

type OrderUpdateResult struct {
	Order     models.Order          `json:"order"`
	Changes   []models.StatusChange `json:"changes"`
	Published int                   `json:"published"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type Dashboard struct {
	Products       int                        `json:"products"`
	Categories     int                        `json:"categories"`
	Users          int                        `json:"users"`
	OrdersByStatus map[models.OrderStatus]int `json:"ordersByStatus"`
	LatestOrders   []models.Order             `json:"latestOrders"`
}
