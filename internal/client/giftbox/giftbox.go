// Package giftbox builds a custom box of traditional sweets that goes into the cart as one product.
package giftbox

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/karan399/milkman/internal/client/cart"
)

const (
	// Size is the number of distinct sweets a box must hold before it can be packed.
	Size = 4
	// MaxQuantity is the most units of one sweet a box may hold.
	MaxQuantity = 2

	// Category and Unit of a packed box.
	Category = "Gift Box"
	Unit     = "per box"

	defaultName = "Custom Gift Box"
	sweetsCat   = "Traditional"
)

// excluded sweets are traditional but sold only loose.
var excluded = map[string]bool{
	"Gulab Jamun": true,
	"Rasmalai":    true,
	"Rasgulla":    true,
	"Sponch":      true,
}

var (
	ErrNotEligible   = errors.New("only traditional sweets can go in a gift box")
	ErrBoxFull       = fmt.Errorf("a gift box holds up to %d sweets", Size)
	ErrQuantityRange = fmt.Errorf("each sweet can be added 1 to %d times", MaxQuantity)
	ErrNotSelected   = errors.New("sweet is not in the box")
	ErrEmpty         = errors.New("select at least one sweet for your gift box")
	ErrIncomplete    = fmt.Errorf("select exactly %d sweets for your gift box", Size)
)

// Eligible reports whether p may go in a box.
func Eligible(p cart.Product) bool {
	return p.Category == sweetsCat && !excluded[p.Name]
}

// Selection is one sweet in the box.
type Selection struct {
	Product  cart.Product
	Quantity int
}

// State is the box being built.
type State struct {
	Name       string
	Selections []Selection
}

// TotalPrice is the sum of price times quantity over the selections.
func (s State) TotalPrice() float64 {
	total := 0.0
	for _, sel := range s.Selections {
		total += sel.Product.Price * float64(sel.Quantity)
	}
	return total
}

// TotalItems is the sum of quantities.
func (s State) TotalItems() int {
	n := 0
	for _, sel := range s.Selections {
		n += sel.Quantity
	}
	return n
}

type action interface{ isAction() }

type (
	sweetAdded   struct{ product cart.Product }
	sweetRemoved struct{ id int }
	quantitySet  struct{ id, quantity int }
	named        struct{ name string }
	reset        struct{}
)

func (sweetAdded) isAction() {}
func (sweetRemoved) isAction() {}
func (quantitySet) isAction() {}
func (named) isAction() {}
func (reset) isAction() {}

// reduce returns the state after a, or an error and s unchanged when a breaks a box rule.
func reduce(s State, a action) (State, error) {
	switch a := a.(type) {
	case sweetAdded:
		if !Eligible(a.product) {
			return s, ErrNotEligible
		}
		if i := indexOf(s.Selections, a.product.ID); i >= 0 {
			if s.Selections[i].Quantity >= MaxQuantity {
				return s, ErrQuantityRange
			}
			return withQuantity(s, i, s.Selections[i].Quantity+1), nil
		}
		if len(s.Selections) >= Size {
			return s, ErrBoxFull
		}
		next := s
		next.Selections = append(append([]Selection(nil), s.Selections...), Selection{Product: a.product, Quantity: 1})
		return next, nil
	case sweetRemoved:
		next := s
		next.Selections = make([]Selection, 0, len(s.Selections))
		for _, sel := range s.Selections {
			if sel.Product.ID != a.id {
				next.Selections = append(next.Selections, sel)
			}
		}
		return next, nil
	case quantitySet:
		if a.quantity < 1 || a.quantity > MaxQuantity {
			return s, ErrQuantityRange
		}
		i := indexOf(s.Selections, a.id)
		if i < 0 {
			return s, ErrNotSelected
		}
		return withQuantity(s, i, a.quantity), nil
	case named:
		next := s
		next.Name = strings.TrimSpace(a.name)
		return next, nil
	case reset:
		return State{}, nil
	}
	return s, nil
}

func indexOf(sels []Selection, id int) int {
	for i, sel := range sels {
		if sel.Product.ID == id {
			return i
		}
	}
	return -1
}

func withQuantity(s State, i, q int) State {
	next := s
	next.Selections = append([]Selection(nil), s.Selections...)
	next.Selections[i].Quantity = q
	return next
}

// Builder holds a box under construction. It is safe for concurrent use.
type Builder struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{subs: map[int]func(State){}}
}

// Add puts one unit of p in the box: a new sweet starts at 1, a selected one goes up by 1.
func (b *Builder) Add(p cart.Product) error { return b.dispatch(sweetAdded{product: p}) }

// Remove takes sweet id out of the box.
func (b *Builder) Remove(id int) { _ = b.dispatch(sweetRemoved{id: id}) }

// SetQuantity sets the units of a selected sweet. q must be 1..MaxQuantity.
func (b *Builder) SetQuantity(id, q int) error { return b.dispatch(quantitySet{id: id, quantity: q}) }

// SetName names the box. Blank restores the default name.
func (b *Builder) SetName(name string) { _ = b.dispatch(named{name: name}) }

// Reset empties the box.
func (b *Builder) Reset() { _ = b.dispatch(reset{}) }

// State returns a copy of the box.
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.state
	st.Selections = append([]Selection(nil), b.state.Selections...)
	return st
}

// Pack returns the box as a cart product with the given id, priced at the sum of its contents.
func (b *Builder) Pack(id int) (cart.Product, error) {
	st := b.State()
	switch {
	case len(st.Selections) == 0:
		return cart.Product{}, ErrEmpty
	case len(st.Selections) < Size:
		return cart.Product{}, ErrIncomplete
	}
	name := st.Name
	if name == "" {
		name = defaultName
	}
	parts := make([]string, 0, len(st.Selections))
	for _, sel := range st.Selections {
		parts = append(parts, fmt.Sprintf("%dx %s", sel.Quantity, sel.Product.Name))
	}
	return cart.Product{
		ID:          id,
		Name:        name,
		Description: "Custom gift box containing: " + strings.Join(parts, ", "),
		Price:       st.TotalPrice(),
		Category:    Category,
		Unit:        Unit,
	}, nil
}

// Subscribe registers fn for box changes and returns a function that removes it.
func (b *Builder) Subscribe(fn func(State)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Builder) dispatch(a action) error {
	b.mu.Lock()
	next, err := reduce(b.state, a)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.state = next
	snapshot := next
	snapshot.Selections = append([]Selection(nil), next.Selections...)
	subs := make([]func(State), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return nil
}
