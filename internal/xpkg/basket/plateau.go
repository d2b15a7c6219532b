package basket

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blueberry/internal/xpkg/models"
)

var ErrEmptyPlateau = errors.New("plateau is empty")

const (
	defaultMenuName = "Menu personnalisé"
	otherBucket     = "autres"
)

// bucket is one course of a composed meal.
type bucket struct {
	category string
	label    string
	singular string
}

var courses = []bucket{
	{"entrees", "Entrées", "entree"},
	{"plats", "Plats", "plat"},
	{"accompagnements", "Accompagnements", "accompagnement"},
	{"desserts", "Desserts", "dessert"},
	{"boissons", "Boissons", "boisson"},
}

// Plateau is the meal a customer composes before it becomes one cart line.
type Plateau struct {
	Items []models.LineItem `json:"items"`
}

type Group struct {
	Category string            `json:"category"`
	Label    string            `json:"label"`
	Items    []models.LineItem `json:"items"`
	Total    float64           `json:"total"`
}

func NewPlateau(items []models.LineItem) *Plateau {
	return &Plateau{Items: items}
}

func (p *Plateau) Add(product models.Product) {
	p.Items = addOne(p.Items, models.LineItemFromProduct(product))
}

func (p *Plateau) Increase(id string) bool {
	var ok bool
	p.Items, ok = setQuantity(p.Items, id, quantityOf(p.Items, id)+1)
	return ok
}

// Decrease removes one unit; the last unit removes the item.
func (p *Plateau) Decrease(id string) bool {
	var ok bool
	p.Items, ok = setQuantity(p.Items, id, quantityOf(p.Items, id)-1)
	return ok
}

func (p *Plateau) Remove(id string) bool {
	var ok bool
	p.Items, ok = setQuantity(p.Items, id, 0)
	return ok
}

func (p *Plateau) Clear() {
	p.Items = nil
}

func (p *Plateau) IsEmpty() bool {
	return len(p.Items) == 0
}

func (p *Plateau) Total() float64 {
	return sum(p.Items)
}

// Groups buckets the items by course. Products outside the five courses
// are listed last under "autres".
func (p *Plateau) Groups() []Group {
	var groups []Group
	known := make(map[string]bool, len(courses))
	for _, c := range courses {
		known[c.category] = true
		if g := p.group(c.category, c.label, func(cat string) bool { return cat == c.category }); len(g.Items) > 0 {
			groups = append(groups, g)
		}
	}
	if g := p.group(otherBucket, "Autres produits", func(cat string) bool { return !known[cat] }); len(g.Items) > 0 {
		groups = append(groups, g)
	}
	return groups
}

func (p *Plateau) group(category, label string, keep func(string) bool) Group {
	g := Group{Category: category, Label: label}
	for _, it := range p.Items {
		if keep(it.Category) {
			g.Items = append(g.Items, it)
		}
	}
	g.Total = sum(g.Items)
	return g
}

// ToMenu wraps the whole plateau into a single cart line priced at the sum
// of its items. The plateau itself is left untouched.
func (p *Plateau) ToMenu(now time.Time) (models.LineItem, error) {
	if p.IsEmpty() {
		return models.LineItem{}, ErrEmptyPlateau
	}

	name := defaultMenuName
	image := p.Items[0].Image
	if main := p.first("plats"); main != nil {
		name = main.Name
		if main.Image != "" {
			image = main.Image
		}
	}

	sub := make([]models.LineItem, 0, len(p.Items))
	for _, it := range p.Items {
		it.OriginalID = it.ID
		sub = append(sub, it)
	}

	return models.LineItem{
		ID:          fmt.Sprintf("menu-%d", now.UnixMilli()),
		Name:        "Menu: " + name,
		Category:    "menus",
		Price:       p.Total(),
		Description: p.describe(),
		Image:       image,
		Quantity:    1,
		IsMenu:      true,
		Items:       sub,
	}, nil
}

func (p *Plateau) first(category string) *models.LineItem {
	for i := range p.Items {
		if p.Items[i].Category == category {
			return &p.Items[i]
		}
	}
	return nil
}

func (p *Plateau) describe() string {
	var parts []string
	for _, c := range courses {
		var names []string
		for _, it := range p.Items {
			if it.Category == c.category {
				names = append(names, it.Name)
			}
		}
		if len(names) > 0 {
			parts = append(parts, c.singular+": "+strings.Join(names, ", "))
		}
	}
	return "Menu composé avec " + strings.Join(parts, " | ")
}
