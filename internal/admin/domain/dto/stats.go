package dto

import "time"

type Stats struct {
	Range          string         `json:"range"`
	Since          time.Time      `json:"since"`
	TotalOrders    int            `json:"totalOrders"`
	ConfirmedSales int            `json:"confirmedSales"`
	Revenue        float64        `json:"revenue"`
	AverageBasket  float64        `json:"averageBasket"`
	NewClients     int            `json:"newClients"`
	Weekdays       []WeekdayStat  `json:"weekdays"`
	Categories     []CategoryStat `json:"categories"`
	TopProducts    []ProductStat  `json:"topProducts"`
	Hours          []HourStat     `json:"hours"`
}

type WeekdayStat struct {
	Day    string  `json:"day"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

type CategoryStat struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ProductStat struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type HourStat struct {
	Hour   string `json:"hour"`
	Orders int    `json:"orders"`
}
