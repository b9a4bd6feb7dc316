package cart

import "testing"

var (
	besanLadoo = Product{ID: 1, Name: "Besan Ladoo", Price: 260, Unit: "per Kg"}
	milkCake   = Product{ID: 4, Name: "Milk Cake", Price: 400, Unit: "per Kg"}
)

func TestCart_AddMergesLines(t *testing.T) {
	c := New()
	c.Add(besanLadoo)
	c.Add(milkCake)
	c.Add(besanLadoo)

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("lines = %d, want 2", len(items))
	}
	if items[0].Product.ID != 1 || items[0].Quantity != 2 {
		t.Errorf("first line = %+v", items[0])
	}
	if c.TotalItems() != 3 {
		t.Errorf("TotalItems = %d, want 3", c.TotalItems())
	}
	if c.TotalPrice() != 920 {
		t.Errorf("TotalPrice = %v, want 920", c.TotalPrice())
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	testCases := []struct {
		name      string
		quantity  int
		wantLines int
		wantTotal int
	}{
		{"set", 5, 2, 6},
		{"zero removes", 0, 1, 1},
		{"negative removes", -3, 1, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			c.Add(besanLadoo)
			c.Add(milkCake)
			c.UpdateQuantity(besanLadoo.ID, tc.quantity)
			if got := len(c.Items()); got != tc.wantLines {
				t.Errorf("lines = %d, want %d", got, tc.wantLines)
			}
			if got := c.TotalItems(); got != tc.wantTotal {
				t.Errorf("TotalItems = %d, want %d", got, tc.wantTotal)
			}
		})
	}
}

func TestCart_UpdateQuantityUnknownID(t *testing.T) {
	c := New()
	c.Add(besanLadoo)
	c.UpdateQuantity(99, 3)
	if c.TotalItems() != 1 {
		t.Errorf("TotalItems = %d, want 1", c.TotalItems())
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	c.Add(besanLadoo)
	c.Add(milkCake)
	c.Remove(besanLadoo.ID)
	if items := c.Items(); len(items) != 1 || items[0].Product.ID != milkCake.ID {
		t.Errorf("items = %+v", items)
	}
	c.Clear()
	if c.TotalItems() != 0 || c.TotalPrice() != 0 {
		t.Error("cart not empty after Clear")
	}
}

func TestCart_Subscribe(t *testing.T) {
	c := New()
	var calls int
	var last []Item
	unsubscribe := c.Subscribe(func(items []Item) {
		calls++
		last = items
	})
	c.Add(besanLadoo)
	c.Add(besanLadoo)
	if calls != 2 || len(last) != 1 || last[0].Quantity != 2 {
		t.Errorf("calls = %d last = %+v", calls, last)
	}

	last[0].Quantity = 100
	if c.TotalItems() != 2 {
		t.Error("subscriber snapshot must not alias cart state")
	}

	unsubscribe()
	c.Clear()
	if calls != 2 {
		t.Errorf("calls after unsubscribe = %d", calls)
	}
}
