package models

// LineItem is one entry of a cart, a plateau or a submitted order. A menu
// composed from a plateau carries its components in Items, each pointing
// back to its product through OriginalID.
type LineItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Price       float64    `json:"price"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Quantity    int        `json:"quantity"`
	IsMenu      bool       `json:"isMenu,omitempty"`
	Items       []LineItem `json:"items,omitempty"`
	OriginalID  string     `json:"originalId,omitempty"`
}

func (li LineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}

// LineItemFromProduct copies the displayable product fields with quantity 1.
func LineItemFromProduct(p Product) LineItem {
	return LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		Quantity:    1,
	}
}
