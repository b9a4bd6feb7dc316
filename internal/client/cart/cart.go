// Package cart is the in-memory shopping cart of the storefront client.
package cart

import "sync"

// Product is a catalog item that can be added to the cart. Price is in rupees per Unit.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	// MRP marks packaged goods billed at the printed retail price on delivery. Price is zero.
	MRP bool `json:"mrp,omitempty"`
}

// Item is one cart line.
type Item struct {
	Product  Product
	Quantity int
}

type action interface{ isAction() }

type (
	added           struct{ product Product }
	removed         struct{ id int }
	quantityUpdated struct{ id, quantity int }
	cleared         struct{}
)

func (added) isAction() {}
func (removed) isAction() {}
func (quantityUpdated) isAction() {}
func (cleared) isAction() {}

// reduce returns the lines after a without modifying items.
func reduce(items []Item, a action) []Item {
	switch a := a.(type) {
	case added:
		out := make([]Item, 0, len(items)+1)
		found := false
		for _, it := range items {
			if it.Product.ID == a.product.ID {
				it.Quantity++
				found = true
			}
			out = append(out, it)
		}
		if !found {
			out = append(out, Item{Product: a.product, Quantity: 1})
		}
		return out
	case removed:
		return without(items, a.id)
	case quantityUpdated:
		if a.quantity <= 0 {
			return without(items, a.id)
		}
		out := make([]Item, len(items))
		copy(out, items)
		for i := range out {
			if out[i].Product.ID == a.id {
				out[i].Quantity = a.quantity
			}
		}
		return out
	case cleared:
		return nil
	}
	return items
}

func without(items []Item, id int) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Product.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Cart holds cart lines. It is safe for concurrent use; subscribers get a copy of the lines
// after every change.
type Cart struct {
	mu     sync.Mutex
	items  []Item
	subs   map[int]func([]Item)
	nextID int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{subs: map[int]func([]Item){}}
}

// Add puts one unit of p in the cart.
func (c *Cart) Add(p Product) { c.dispatch(added{product: p}) }

// Remove drops the line for product id.
func (c *Cart) Remove(id int) { c.dispatch(removed{id: id}) }

// UpdateQuantity sets the quantity of product id. A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(id, quantity int) {
	c.dispatch(quantityUpdated{id: id, quantity: quantity})
}

// Clear empties the cart.
func (c *Cart) Clear() { c.dispatch(cleared{}) }

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items() {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of price times quantity.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, it := range c.Items() {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// Subscribe registers fn for cart changes and returns a function that removes it.
func (c *Cart) Subscribe(fn func([]Item)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Cart) dispatch(a action) {
	c.mu.Lock()
	c.items = reduce(c.items, a)
	snapshot := append([]Item(nil), c.items...)
	subs := make([]func([]Item), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
