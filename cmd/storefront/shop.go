package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/client/cart"
	"github.com/karan399/milkman/internal/client/giftbox"
)

// giftBoxIDBase keeps packed boxes clear of catalog ids; each box is its own cart line.
const giftBoxIDBase = 1_000_000

const shopHelp = "commands: menu [category], add <id>, remove <id>, qty <id> <n>, giftbox, cart, clear, checkout, quit"

const giftBoxHelp = "gift box: add <id>, remove <id>, qty <id> <1-2>, name <text>, show, pack, cancel"

// shopSession is one run of the shop REPL. The cart lives only for this session.
type shopSession struct {
	app   *app
	ctx   context.Context
	in    *bufio.Scanner
	w     io.Writer
	cart  *cart.Cart
	boxes int
}

// shop runs a cart REPL over the menu, with a gift box builder and a cash-on-delivery checkout.
func (a *app) shop(ctx context.Context, r io.Reader, w io.Writer) error {
	s := &shopSession{app: a, ctx: ctx, in: bufio.NewScanner(r), w: w, cart: cart.New()}
	unsubscribe := s.cart.Subscribe(func(items []cart.Item) {
		n := 0
		for _, it := range items {
			n += it.Quantity
		}
		fmt.Fprintf(w, "(cart: %d items)\n", n)
	})
	defer unsubscribe()

	printMenu(w, "")
	fmt.Fprintln(w, shopHelp)
	for {
		fields, ok := s.prompt("> ")
		if !ok {
			return s.in.Err()
		}
		switch fields[0] {
		case "add":
			if p, ok := s.product(fields, 1); ok {
				s.cart.Add(p)
			}
		case "remove":
			if p, ok := s.product(fields, 1); ok {
				s.cart.Remove(p.ID)
			}
		case "qty":
			id, n, ok := idAndCount(fields)
			if !ok {
				fmt.Fprintln(w, "usage: qty <id> <n>")
				continue
			}
			s.cart.UpdateQuantity(id, n)
		case "giftbox":
			if !s.buildGiftBox() {
				return s.in.Err()
			}
		case "cart":
			printCart(w, s.cart)
		case "clear":
			s.cart.Clear()
		case "checkout":
			s.checkout()
		case "menu":
			category := ""
			if len(fields) > 1 {
				category = fields[1]
			}
			printMenu(w, category)
		case "quit", "exit":
			printCart(w, s.cart)
			return nil
		default:
			fmt.Fprintln(w, "unknown command")
		}
	}
}

// prompt reads the next non-empty line. ok is false at end of input.
func (s *shopSession) prompt(p string) (fields []string, ok bool) {
	for {
		fmt.Fprint(s.w, p)
		if !s.in.Scan() {
			return nil, false
		}
		if fields = strings.Fields(s.in.Text()); len(fields) > 0 {
			return fields, true
		}
	}
}

func (s *shopSession) product(fields []string, i int) (cart.Product, bool) {
	if len(fields) > i {
		if id, err := strconv.Atoi(fields[i]); err == nil {
			if p, ok := findProduct(id); ok {
				return p, true
			}
		}
	}
	fmt.Fprintln(s.w, "unknown product")
	return cart.Product{}, false
}

// buildGiftBox runs the gift box builder until the box is packed into the cart or cancelled.
// It returns false at end of input.
func (s *shopSession) buildGiftBox() bool {
	b := giftbox.New()
	fmt.Fprintf(s.w, "Pick %d sweets, up to %d of each:\n", giftbox.Size, giftbox.MaxQuantity)
	for _, p := range catalog {
		if giftbox.Eligible(p) {
			fmt.Fprintf(s.w, "%2d  %-16s ₹%6.0f %s\n", p.ID, p.Name, p.Price, p.Unit)
		}
	}
	fmt.Fprintln(s.w, giftBoxHelp)

	for {
		fields, ok := s.prompt("box> ")
		if !ok {
			return false
		}
		var err error
		switch fields[0] {
		case "add":
			if p, ok := s.product(fields, 1); ok {
				err = b.Add(p)
			}
		case "remove":
			if p, ok := s.product(fields, 1); ok {
				b.Remove(p.ID)
			}
		case "qty":
			id, n, ok := idAndCount(fields)
			if !ok {
				fmt.Fprintln(s.w, "usage: qty <id> <1-2>")
				continue
			}
			err = b.SetQuantity(id, n)
		case "name":
			b.SetName(strings.Join(fields[1:], " "))
		case "show":
			printGiftBox(s.w, b.State())
		case "pack":
			p, err := b.Pack(giftBoxIDBase + s.boxes)
			if err != nil {
				fmt.Fprintln(s.w, err)
				continue
			}
			s.boxes++
			s.cart.Add(p)
			fmt.Fprintf(s.w, "Added %s (₹%.0f) to your cart.\n", p.Name, p.Price)
			return true
		case "cancel":
			fmt.Fprintln(s.w, "Gift box discarded.")
			return true
		default:
			fmt.Fprintln(s.w, giftBoxHelp)
		}
		if err != nil {
			fmt.Fprintln(s.w, err)
		}
	}
}

// checkout places a cash-on-delivery order for the cart to the signed-in user's default address.
func (s *shopSession) checkout() {
	w := s.w
	if len(s.cart.Items()) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	if s.app.store == nil || !s.app.store.State().Authenticated() {
		fmt.Fprintln(w, "Sign in with `storefront login <phone>` to place an order.")
		return
	}
	st := s.app.store.State()
	addr, ok := deliveryAddress(st.User.Addresses)
	if !ok {
		fmt.Fprintln(w, "Add a delivery address first (storefront add-address).")
		return
	}
	if s.app.api != nil {
		available, err := s.app.api.CheckDelivery(s.ctx, addr.Pincode)
		if err != nil {
			fmt.Fprintln(w, "Could not check delivery:", err)
			return
		}
		if !available {
			fmt.Fprintf(w, "Sorry, we do not deliver to %s yet.\n", addr.Pincode)
			return
		}
	}

	fmt.Fprintln(w, "Order summary")
	printCart(w, s.cart)
	fmt.Fprintf(w, "Deliver to: %s, %s, %s, %s %s\n", addr.Name, addr.Address, addr.City, addr.State, addr.Pincode)
	fmt.Fprintln(w, "Payment: Cash on delivery")
	for _, it := range s.cart.Items() {
		if it.Product.MRP {
			fmt.Fprintln(w, "Packaged items are billed at MRP on delivery.")
			break
		}
	}
	fmt.Fprintln(w, "Thank you for your order! Your sweets will be prepared fresh and delivered soon.")
	s.cart.Clear()
}

// deliveryAddress picks the default address, or the first one when none is marked default.
func deliveryAddress(list []api.Address) (api.Address, bool) {
	for _, ad := range list {
		if ad.IsDefault {
			return ad, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return api.Address{}, false
}

func idAndCount(fields []string) (id, n int, ok bool) {
	if len(fields) < 3 {
		return 0, 0, false
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	n, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, false
	}
	return id, n, true
}

func printMenu(w io.Writer, category string) {
	for _, cat := range categories {
		if category != "" && !strings.EqualFold(category, cat) {
			continue
		}
		fmt.Fprintf(w, "%s\n", cat)
		for _, p := range catalog {
			if p.Category == cat {
				fmt.Fprintf(w, "%2d  %-16s %8s %s\n", p.ID, p.Name, price(p), p.Unit)
			}
		}
	}
}

func price(p cart.Product) string {
	if p.MRP {
		return "MRP"
	}
	return fmt.Sprintf("₹%.0f", p.Price)
}

func printCart(w io.Writer, c *cart.Cart) {
	items := c.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	for _, it := range items {
		line := "MRP"
		if !it.Product.MRP {
			line = fmt.Sprintf("₹%.0f", it.Product.Price*float64(it.Quantity))
		}
		fmt.Fprintf(w, "%-16s x%-3d %9s\n", it.Product.Name, it.Quantity, line)
	}
	fmt.Fprintf(w, "Total: %d items, ₹%.0f\n", c.TotalItems(), c.TotalPrice())
}

func printGiftBox(w io.Writer, st giftbox.State) {
	if len(st.Selections) == 0 {
		fmt.Fprintln(w, "Your gift box is empty.")
		return
	}
	for _, sel := range st.Selections {
		fmt.Fprintf(w, "%-16s x%d\n", sel.Product.Name, sel.Quantity)
	}
	fmt.Fprintf(w, "%d of %d sweets, ₹%.0f\n", len(st.Selections), giftbox.Size, st.TotalPrice())
}
