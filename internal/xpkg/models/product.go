package models

import (
	"strings"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	IsSpecial   bool      `json:"isSpecial"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Matches reports whether term occurs in the product name or description,
// ignoring case. An empty term matches everything.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter narrows product listings. Zero values disable a criterion.
type ProductFilter struct {
	Category  string
	Available *bool
	Special   *bool
	Search    string
}

func (f ProductFilter) Keep(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if f.Special != nil && p.IsSpecial != *f.Special {
		return false
	}
	return p.Matches(f.Search)
}
