package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

// Monday 10 June 2024
var weekStart = time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return weekStart.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

var (
	pouletLine = models.LineItem{ID: "poulet", Name: "Poulet DG", Category: "plats", Price: 7.5}
	jusLine    = models.LineItem{ID: "jus", Name: "Jus de bissap", Category: "boissons", Price: 2.5}
)

func withQty(it models.LineItem, q int) models.LineItem {
	it.Quantity = q
	return it
}

func statsOrders() []models.Order {
	subPoulet := withQty(pouletLine, 1)
	subPoulet.OriginalID = "poulet"
	subJus := withQty(jusLine, 1)
	subJus.OriginalID = "jus"
	menu := models.LineItem{
		ID: "menu-1", Name: "Menu: Poulet DG", Category: "menus", Price: 10, Quantity: 1,
		IsMenu: true, Items: []models.LineItem{subPoulet, subJus},
	}
	return []models.Order{
		{ID: "o1", Status: models.StatusConfirmed, Total: 20, CreatedAt: at(0, 12, 30),
			Items: []models.LineItem{withQty(pouletLine, 2), withQty(jusLine, 1)}},
		{ID: "o2", Status: models.StatusDelivered, Total: 12.5, CreatedAt: at(2, 12, 10),
			Items: []models.LineItem{menu}},
		{ID: "o3", Status: models.StatusPending, Total: 5, CreatedAt: at(2, 19, 0),
			Items: []models.LineItem{withQty(jusLine, 2)}},
		{ID: "o4", Status: models.StatusCancelled, Total: 8, CreatedAt: at(6, 19, 45),
			Items: []models.LineItem{withQty(pouletLine, 1)}},
		{ID: "old", Status: models.StatusDelivered, Total: 99, CreatedAt: at(-1, 20, 0),
			Items: []models.LineItem{withQty(pouletLine, 9)}},
	}
}

func statsUsers() []models.User {
	return []models.User{
		{UID: "admin", Role: models.RoleAdmin, CreatedAt: at(1, 9, 0)},
		{UID: "new", Role: models.RoleClient, CreatedAt: at(3, 9, 0)},
		{UID: "old", Role: models.RoleClient, CreatedAt: at(-30, 9, 0)},
	}
}

var statsCategories = []models.Category{
	{ID: "plats", Name: "Plats"},
	{ID: "boissons", Name: "Boissons"},
}

func TestComputeStats(t *testing.T) {
	s := computeStats(weekStart, statsOrders(), statsUsers(), statsCategories)

	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 2, s.ConfirmedSales)
	assert.InDelta(t, 32.5, s.Revenue, 1e-9)
	assert.InDelta(t, 16.25, s.AverageBasket, 1e-9)
	assert.Equal(t, 1, s.NewClients)

	require.Len(t, s.Weekdays, 7)
	assert.Equal(t, dto.WeekdayStat{Day: "lun", Orders: 1, Sales: 20}, s.Weekdays[0])
	assert.Equal(t, dto.WeekdayStat{Day: "mar"}, s.Weekdays[1])
	assert.Equal(t, dto.WeekdayStat{Day: "mer", Orders: 2, Sales: 12.5}, s.Weekdays[2])
	assert.Equal(t, dto.WeekdayStat{Day: "dim", Orders: 1}, s.Weekdays[6])

	assert.Equal(t, []dto.CategoryStat{
		{Name: "Plats", Quantity: 3},
		{Name: "Boissons", Quantity: 2},
	}, s.Categories)

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "Poulet DG", s.TopProducts[0].Name)
	assert.Equal(t, 3, s.TopProducts[0].Quantity)
	assert.InDelta(t, 22.5, s.TopProducts[0].Revenue, 1e-9)
	assert.Equal(t, "Jus de bissap", s.TopProducts[1].Name)
	assert.Equal(t, 2, s.TopProducts[1].Quantity)

	assert.Equal(t, []dto.HourStat{{Hour: "12:00", Orders: 2}, {Hour: "19:00", Orders: 2}}, s.Hours)
}

func TestComputeStats_Empty(t *testing.T) {
	s := computeStats(weekStart, nil, nil, nil)

	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.AverageBasket)
	assert.Len(t, s.Weekdays, 7)
	assert.NotNil(t, s.Categories)
	assert.NotNil(t, s.TopProducts)
	assert.NotNil(t, s.Hours)
}

func TestComputeStats_UnknownCategory(t *testing.T) {
	orders := []models.Order{{
		ID: "o", Status: models.StatusConfirmed, Total: 3, CreatedAt: at(0, 10, 0),
		Items: []models.LineItem{{ID: "x", Name: "Mystère", Price: 3, Quantity: 1}},
	}}
	s := computeStats(weekStart, orders, nil, nil)
	assert.Equal(t, []dto.CategoryStat{{Name: "Autre", Quantity: 1}}, s.Categories)
}

func TestComputeStats_TopProductsCapped(t *testing.T) {
	var items []models.LineItem
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, models.LineItem{ID: name, Name: name, Category: "plats", Price: 1, Quantity: i + 1})
	}
	orders := []models.Order{{ID: "o", Status: models.StatusConfirmed, CreatedAt: at(0, 10, 0), Items: items}}

	s := computeStats(weekStart, orders, nil, nil)
	require.Len(t, s.TopProducts, core.TopProducts)
	assert.Equal(t, "g", s.TopProducts[0].Name)
	assert.Equal(t, "c", s.TopProducts[4].Name)
}

func TestRangeStart(t *testing.T) {
	wednesday := time.Date(2024, time.June, 12, 15, 4, 0, 0, time.UTC)
	sunday := time.Date(2024, time.June, 16, 23, 0, 0, 0, time.UTC)

	cases := []struct {
		now    time.Time
		period string
		want   time.Time
	}{
		{wednesday, "day", time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)},
		{wednesday, "week", weekStart},
		{wednesday, "", weekStart},
		{sunday, "WEEK", weekStart},
		{wednesday, "month", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{wednesday, "year", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := rangeStart(tc.now, tc.period)
		require.NoError(t, err, tc.period)
		assert.Equal(t, tc.want, got, tc.period)
	}

	_, err := rangeStart(wednesday, "decade")
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}

func TestStats_LoadsRange(t *testing.T) {
	orders := newFakeOrders(statsOrders()...)
	ds := NewDashboardService(newFakeProducts(), newFakeCategories(statsCategories...), orders, newFakeUsers(statsUsers()...), logger.NewNop())
	ds.now = func() time.Time { return at(3, 8, 0) }

	s, err := ds.Stats(context.Background(), "week")
	require.NoError(t, err)
	assert.Equal(t, "week", s.Range)
	assert.Equal(t, weekStart, s.Since)
	assert.Equal(t, 4, s.TotalOrders)

	_, err = ds.Stats(context.Background(), "forever")
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}

func TestDashboard(t *testing.T) {
	products := newFakeProducts(models.Product{ID: "poulet", Category: "plats"}, models.Product{ID: "jus", Category: "boissons"})
	orders := newFakeOrders(statsOrders()...)
	ds := NewDashboardService(products, newFakeCategories(statsCategories...), orders, newFakeUsers(statsUsers()...), logger.NewNop())

	d, err := ds.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Products)
	assert.Equal(t, 2, d.Categories)
	assert.Equal(t, 3, d.Users)
	assert.Equal(t, 2, d.OrdersByStatus[models.StatusDelivered])
	require.Len(t, d.LatestOrders, core.LatestOrders)
	assert.Equal(t, "o4", d.LatestOrders[0].ID)
}
