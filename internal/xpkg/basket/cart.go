package basket

import "blueberry/internal/xpkg/models"

// DeliveryFee is charged once per order when the cart is not empty.
const DeliveryFee = 2.5

type Cart struct {
	Items []models.LineItem `json:"items"`
}

func NewCart(items []models.LineItem) *Cart {
	return &Cart{Items: items}
}

// Add puts one unit of p in the cart.
func (c *Cart) Add(p models.Product) {
	c.Items = addOne(c.Items, models.LineItemFromProduct(p))
}

// AddLine appends a prepared line, merging by id like Add.
func (c *Cart) AddLine(item models.LineItem) {
	c.Items = addLine(c.Items, item)
}

func (c *Cart) Increase(id string) bool {
	return c.SetQuantity(id, quantityOf(c.Items, id)+1)
}

func (c *Cart) Decrease(id string) bool {
	return c.SetQuantity(id, quantityOf(c.Items, id)-1)
}

// SetQuantity changes the quantity of id; zero or less removes the line.
// It reports whether the line existed.
func (c *Cart) SetQuantity(id string, qty int) bool {
	var ok bool
	c.Items, ok = setQuantity(c.Items, id, qty)
	return ok
}

func (c *Cart) Remove(id string) bool {
	return c.SetQuantity(id, 0)
}

// RemoveIDs drops every line whose id is listed.
func (c *Cart) RemoveIDs(ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if _, ok := drop[it.ID]; !ok {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() float64 {
	return sum(c.Items)
}

func (c *Cart) DeliveryFee() float64 {
	if c.Subtotal() > 0 {
		return DeliveryFee
	}
	return 0
}

func (c *Cart) Total() float64 {
	return c.Subtotal() + c.DeliveryFee()
}

func addOne(items []models.LineItem, item models.LineItem) []models.LineItem {
	if i := indexOf(items, item.ID); i >= 0 {
		items[i].Quantity++
		return items
	}
	item.Quantity = 1
	return append(items, item)
}

func addLine(items []models.LineItem, item models.LineItem) []models.LineItem {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if i := indexOf(items, item.ID); i >= 0 {
		items[i].Quantity += item.Quantity
		return items
	}
	return append(items, item)
}

// Merge adds every line of src to dst, summing quantities of shared ids.
func Merge(dst, src []models.LineItem) []models.LineItem {
	for _, it := range src {
		dst = addLine(dst, it)
	}
	return dst
}

func setQuantity(items []models.LineItem, id string, qty int) ([]models.LineItem, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	if qty <= 0 {
		return append(items[:i], items[i+1:]...), true
	}
	items[i].Quantity = qty
	return items, true
}

func indexOf(items []models.LineItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func quantityOf(items []models.LineItem, id string) int {
	if i := indexOf(items, id); i >= 0 {
		return items[i].Quantity
	}
	return 0
}

func sum(items []models.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}
