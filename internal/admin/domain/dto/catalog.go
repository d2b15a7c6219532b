package dto

import (
	"io"
	"strings"

	"blueberry/internal/xpkg/models"
)

// ProductInput carries a product creation or a partial update. Nil fields
// are left untouched on update.
type ProductInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Available   *bool    `json:"available"`
	IsSpecial   *bool    `json:"isSpecial"`
}

func (in ProductInput) Apply(p models.Product) models.Product {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.IsSpecial != nil {
		p.IsSpecial = *in.IsSpecial
	}
	return p
}

type CategoryInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Visible     *bool   `json:"visible"`
}

func (in CategoryInput) Apply(c models.Category) models.Category {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	if in.Visible != nil {
		c.Visible = *in.Visible
	}
	return c
}

type CategoryCount struct {
	Category models.Category `json:"category"`
	Products int             `json:"products"`
}

// Image is an uploaded file waiting to be stored.
type Image struct {
	ContentType string
	Body        io.Reader
}
