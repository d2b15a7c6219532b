package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

const otherCategory = "Autre"

var weekdays = []string{"lun", "mar", "mer", "jeu", "ven", "sam", "dim"}

type DashboardService struct {
	products   core.IProductRepo
	categories core.ICategoryRepo
	orders     core.IOrderRepo
	users      core.IUserRepo
	mylog      logger.Logger
	now        func() time.Time
}

func NewDashboardService(
	products core.IProductRepo,
	categories core.ICategoryRepo,
	orders core.IOrderRepo,
	users core.IUserRepo,
	mylog logger.Logger,
) *DashboardService {
	return &DashboardService{
		products:   products,
		categories: categories,
		orders:     orders,
		users:      users,
		mylog:      mylog,
		now:        time.Now,
	}
}

// Dashboard gathers the overview counters in parallel.
func (ds *DashboardService) Dashboard(ctx context.Context) (dto.Dashboard, error) {
	var out dto.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Products, err = ds.products.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		out.Categories, err = ds.categories.Count(gctx)
		return
	})
	g.Go(func() error {
		users, err := ds.users.List(gctx, "")
		out.Users = len(users)
		return err
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = ds.orders.CountByStatus(gctx)
		return
	})
	g.Go(func() (err error) {
		out.LatestOrders, err = ds.orders.List(gctx, models.OrderFilter{Limit: core.LatestOrders})
		return
	})
	if err := g.Wait(); err != nil {
		ds.mylog.Action("dashboard").Error("Failed to build dashboard", err)
		return dto.Dashboard{}, fmt.Errorf("cannot build dashboard: %w", err)
	}
	if out.LatestOrders == nil {
		out.LatestOrders = []models.Order{}
	}
	if out.OrdersByStatus == nil {
		out.OrdersByStatus = map[models.OrderStatus]int{}
	}
	return out, nil
}

// Stats aggregates the orders and sign-ups of the requested period.
func (ds *DashboardService) Stats(ctx context.Context, period string) (dto.Stats, error) {
	mylog := ds.mylog.Action("stats").With("range", period)

	since, err := rangeStart(ds.now(), period)
	if err != nil {
		return dto.Stats{}, err
	}

	var (
		orders     []models.Order
		users      []models.User
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = ds.orders.List(gctx, models.OrderFilter{Since: since})
		return
	})
	g.Go(func() (err error) {
		users, err = ds.users.List(gctx, "")
		return
	})
	g.Go(func() (err error) {
		categories, err = ds.categories.List(gctx, false)
		return
	})
	if err := g.Wait(); err != nil {
		mylog.Error("Failed to load statistics data", err)
		return dto.Stats{}, fmt.Errorf("cannot load statistics: %w", err)
	}

	stats := computeStats(since, orders, users, categories)
	stats.Range = strings.ToLower(strings.TrimSpace(period))
	if stats.Range == "" {
		stats.Range = "week"
	}
	mylog.Debug("Statistics computed", "orders", stats.TotalOrders, "sales", stats.ConfirmedSales)
	return stats, nil
}

// rangeStart returns the first instant of the day, week (from Monday),
// month or year containing now. An empty range means week.
func rangeStart(now time.Time, period string) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "day":
		return day, nil
	case "", "week":
		return day.AddDate(0, 0, -weekdayIndex(day)), nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "year":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, core.ErrInvalidRange
}

// weekdayIndex numbers days from Monday (0) to Sunday (6).
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// isSale reports whether an order counts towards revenue.
func isSale(o models.Order) bool {
	return o.Status != models.StatusPending && o.Status != models.StatusCancelled
}

func computeStats(since time.Time, orders []models.Order, users []models.User, categories []models.Category) dto.Stats {
	loc := since.Location()
	stats := dto.Stats{
		Since:       since,
		Weekdays:    make([]dto.WeekdayStat, len(weekdays)),
		Categories:  []dto.CategoryStat{},
		TopProducts: []dto.ProductStat{},
		Hours:       []dto.HourStat{},
	}
	for i, d := range weekdays {
		stats.Weekdays[i].Day = d
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	catQty := make(map[string]int)
	products := make(map[string]*dto.ProductStat)
	hours := make(map[int]int)

	for _, o := range orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		at := o.CreatedAt.In(loc)
		stats.TotalOrders++
		day := &stats.Weekdays[weekdayIndex(at)]
		day.Orders++
		hours[at.Hour()]++

		if !isSale(o) {
			continue
		}
		stats.ConfirmedSales++
		stats.Revenue += o.Total
		day.Sales += o.Total

		for _, it := range o.Items {
			for _, unit := range soldUnits(it) {
				catQty[categoryName(names, unit.Category)] += unit.Quantity
				key := unit.OriginalID
				if key == "" {
					key = unit.ID
				}
				p, ok := products[key]
				if !ok {
					p = &dto.ProductStat{Name: unit.Name}
					products[key] = p
				}
				p.Quantity += unit.Quantity
				p.Revenue += unit.LineTotal()
			}
		}
	}
	if stats.ConfirmedSales > 0 {
		stats.AverageBasket = stats.Revenue / float64(stats.ConfirmedSales)
	}

	for _, u := range users {
		if u.Role != models.RoleAdmin && !u.CreatedAt.Before(since) {
			stats.NewClients++
		}
	}

	for name, qty := range catQty {
		stats.Categories = append(stats.Categories, dto.CategoryStat{Name: name, Quantity: qty})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		a, b := stats.Categories[i], stats.Categories[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})

	for _, p := range products {
		stats.TopProducts = append(stats.TopProducts, *p)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(stats.TopProducts) > core.TopProducts {
		stats.TopProducts = stats.TopProducts[:core.TopProducts]
	}

	hourKeys := make([]int, 0, len(hours))
	for h := range hours {
		hourKeys = append(hourKeys, h)
	}
	sort.Ints(hourKeys)
	for _, h := range hourKeys {
		stats.Hours = append(stats.Hours, dto.HourStat{Hour: fmt.Sprintf("%02d:00", h), Orders: hours[h]})
	}
	return stats
}

// soldUnits expands a menu into its components, multiplied by the number
// of menus ordered.
func soldUnits(it models.LineItem) []models.LineItem {
	if !it.IsMenu || len(it.Items) == 0 {
		return []models.LineItem{it}
	}
	out := make([]models.LineItem, 0, len(it.Items))
	for _, sub := range it.Items {
		sub.Quantity *= max(it.Quantity, 1)
		out = append(out, sub)
	}
	return out
}

func categoryName(names map[string]string, id string) string {
	if id == "" {
		return otherCategory
	}
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
