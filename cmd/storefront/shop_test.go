package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/client"
	"github.com/karan399/milkman/internal/client/session"
)

func runShop(t *testing.T, a *app, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := a.shop(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("shop: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

// signedIn returns an app whose session holds one default address and whose API answers
// delivery checks with available.
func signedIn(t *testing.T, available bool) *app {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/delivery/check" {
			http.NotFound(w, r)
			return
		}
		var req api.DeliveryCheckRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.DeliveryCheckResponse{Pincode: req.Pincode, Available: available})
	}))
	t.Cleanup(srv.Close)

	storage := session.NewMemoryStorage()
	user, _ := json.Marshal(api.User{ID: "u1", Phone: "9876543210", Addresses: []api.Address{
		{ID: "a2", Type: "work", Name: "Office", Address: "1 BKC", City: "Mumbai", State: "MH", Pincode: "400051"},
		{ID: "a1", Type: "home", Name: "Home", Address: "12 MG Road", City: "Mumbai", State: "MH", Pincode: "400001", IsDefault: true},
	}})
	_ = storage.Set(session.UserKey, string(user))
	_ = storage.Set(session.SessionKey, "token")

	apiClient := client.New(srv.URL)
	store := session.NewStore(apiClient, storage, nil)
	if err := store.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	return &app{api: apiClient, store: store}
}

func TestShop(t *testing.T) {
	got := runShop(t, &app{}, "add 1\nadd 1\nadd 4\nqty 4 0\nadd 99\ncart\nquit\n")
	assertContains(t, got, "Besan Ladoo", "x2", "Total: 2 items, ₹520", "unknown product")
}

func TestShop_MenuByCategory(t *testing.T) {
	got := runShop(t, &app{}, "menu dairy\nquit\n")
	menu := got[strings.Index(got, shopHelp)+len(shopHelp):]
	assertContains(t, menu, "Dairy", "Desi Ghee", "MRP")
	if strings.Contains(menu, "Kaju Katli") {
		t.Errorf("dairy menu lists a traditional sweet:\n%s", menu)
	}
}

func TestShop_GiftBox(t *testing.T) {
	input := strings.Join([]string{
		"giftbox",
		"add 1", "add 1", "add 11", "add 4", "add 5",
		"pack",
		"add 8", "qty 1 3",
		"name Diwali Box",
		"pack",
		"cart",
		"quit",
	}, "\n") + "\n"
	got := runShop(t, &app{}, input)
	assertContains(t, got,
		"only traditional sweets can go in a gift box",
		"select exactly 4 sweets for your gift box",
		"each sweet can be added 1 to 2 times",
		"Added Diwali Box (₹2490) to your cart.",
		"Total: 1 items, ₹2490",
	)
}

func TestShop_GiftBoxCancel(t *testing.T) {
	got := runShop(t, &app{}, "giftbox\nadd 1\ncancel\ncart\nquit\n")
	assertContains(t, got, "Gift box discarded.", "Your cart is empty.")
}

func TestShop_CheckoutRequiresLogin(t *testing.T) {
	got := runShop(t, &app{}, "checkout\nadd 1\ncheckout\nquit\n")
	assertContains(t, got, "Your cart is empty.", "Sign in with", "Total: 1 items, ₹260")
}

func TestShop_CheckoutCashOnDelivery(t *testing.T) {
	got := runShop(t, signedIn(t, true), "add 1\nadd 21\ncheckout\ncart\nquit\n")
	assertContains(t, got,
		"Order summary",
		"Total: 2 items, ₹260",
		"Deliver to: Home, 12 MG Road, Mumbai, MH, 400001",
		"Payment: Cash on delivery",
		"billed at MRP",
		"Thank you for your order!",
	)
	after := got[strings.Index(got, "Thank you for your order!"):]
	assertContains(t, after, "Your cart is empty.")
}

func TestShop_CheckoutUndeliverablePincode(t *testing.T) {
	got := runShop(t, signedIn(t, false), "add 1\ncheckout\nquit\n")
	assertContains(t, got, "Sorry, we do not deliver to 400001 yet.", "Total: 1 items, ₹260")
	if strings.Contains(got, "Thank you for your order!") {
		t.Errorf("order placed for an undeliverable pincode:\n%s", got)
	}
}

func TestDeliveryAddress(t *testing.T) {
	if _, ok := deliveryAddress(nil); ok {
		t.Error("no addresses should give no delivery address")
	}
	first := api.Address{ID: "a1"}
	if ad, ok := deliveryAddress([]api.Address{first, {ID: "a2"}}); !ok || ad.ID != "a1" {
		t.Errorf("without a default = %+v, want the first address", ad)
	}
	if ad, _ := deliveryAddress([]api.Address{first, {ID: "a2", IsDefault: true}}); ad.ID != "a2" {
		t.Errorf("with a default = %+v, want a2", ad)
	}
}

func TestFindProduct(t *testing.T) {
	if p, ok := findProduct(8); !ok || p.Name != "Kaju Katli" {
		t.Errorf("findProduct(8) = %+v, %v", p, ok)
	}
	if _, ok := findProduct(0); ok {
		t.Error("findProduct(0) should miss")
	}
}

func TestCatalog_IDsUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, p := range catalog {
		if seen[p.ID] {
			t.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
		if p.ID >= giftBoxIDBase {
			t.Errorf("product id %d collides with gift box ids", p.ID)
		}
		if p.MRP != (p.Price == 0) {
			t.Errorf("%s: MRP = %v with price %v", p.Name, p.MRP, p.Price)
		}
	}
}
