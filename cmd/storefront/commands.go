package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/client"
	"github.com/karan399/milkman/internal/client/session"
)

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront login <phone>")
	}
	resp, err := a.store.Login(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	if resp.DemoMode {
		fmt.Printf("Demo mode: your code is %s\n", resp.DebugOTP)
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter OTP: ")
		if !in.Scan() {
			return errors.New("no code entered")
		}
		err := a.store.VerifyOTP(ctx, strings.TrimSpace(in.Text()))
		if err == nil {
			break
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.AttemptsLeft != nil && *apiErr.AttemptsLeft > 0 {
			fmt.Printf("%s. %d attempts remaining.\n", apiErr.Message, *apiErr.AttemptsLeft)
			continue
		}
		return err
	}
	return a.whoami()
}

func (a *app) whoami() error {
	st := a.store.State()
	if !st.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	u := st.User
	fmt.Printf("Signed in as %s (id %s)\n", u.Phone, u.ID)
	if u.Name != nil {
		fmt.Printf("Name:  %s\n", *u.Name)
	}
	if u.Email != nil {
		fmt.Printf("Email: %s\n", *u.Email)
	}
	fmt.Printf("Saved addresses: %d\n", len(u.Addresses))
	return nil
}

// logout revokes the token on the server when possible, then always forgets it locally.
func (a *app) logout(ctx context.Context) error {
	if token := a.store.State().SessionToken; token != "" {
		if err := a.api.Logout(ctx, token); err != nil && !client.IsUnauthorized(err) {
			a.log.Warn("server-side logout failed", zap.Error(err))
		}
	}
	if err := a.store.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "display name (empty keeps the current one)")
	email := fs.String("email", "", "email address (empty keeps the current one)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var namePtr, emailPtr *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			namePtr = name
		case "email":
			emailPtr = email
		}
	})
	if namePtr == nil && emailPtr == nil {
		return a.whoami()
	}
	if err := a.store.UpdateProfile(ctx, namePtr, emailPtr); err != nil {
		return err
	}
	return a.whoami()
}

func (a *app) addresses(ctx context.Context) error {
	if err := a.store.RefreshAddresses(ctx); err != nil {
		return err
	}
	printAddresses(os.Stdout, a.store.State().User.Addresses)
	return nil
}

func (a *app) addAddress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-address", flag.ContinueOnError)
	req := api.CreateAddressRequest{}
	fs.StringVar(&req.Type, "type", "home", "home, work or other")
	fs.StringVar(&req.Name, "name", "", "label, e.g. Home")
	fs.StringVar(&req.Address, "address", "", "street address")
	fs.StringVar(&req.City, "city", "", "city")
	fs.StringVar(&req.State, "state", "", "state")
	fs.StringVar(&req.Pincode, "pincode", "", "6-digit pincode")
	landmark := fs.String("landmark", "", "nearby landmark")
	fs.BoolVar(&req.IsDefault, "default", false, "make this the default address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *landmark != "" {
		req.Landmark = landmark
	}
	st := a.store.State()
	if !st.Authenticated() {
		return session.ErrNotAuthenticated
	}
	created, err := a.api.CreateAddress(ctx, st.SessionToken, req)
	if err != nil {
		return err
	}
	fmt.Printf("Saved address %s.\n", created.ID)
	return a.addresses(ctx)
}

func (a *app) defaultAddress(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront default-address <id>")
	}
	st := a.store.State()
	if !st.Authenticated() {
		return session.ErrNotAuthenticated
	}
	list, err := a.api.SetDefaultAddress(ctx, st.SessionToken, args[0])
	if err != nil {
		return err
	}
	if err := a.store.SetAddresses(list); err != nil {
		return err
	}
	printAddresses(os.Stdout, list)
	return nil
}

func (a *app) deleteAddress(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront delete-address <id>")
	}
	st := a.store.State()
	if !st.Authenticated() {
		return session.ErrNotAuthenticated
	}
	if err := a.api.DeleteAddress(ctx, st.SessionToken, args[0]); err != nil {
		return err
	}
	return a.addresses(ctx)
}

func (a *app) delivery(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront delivery <pincode>")
	}
	ok, err := a.api.CheckDelivery(ctx, args[0])
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("We deliver to %s.\n", args[0])
	} else {
		fmt.Printf("Sorry, we do not deliver to %s yet.\n", args[0])
	}
	return nil
}

func (a *app) contact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	req := api.ContactRequest{}
	fs.StringVar(&req.Name, "name", "", "your name")
	fs.StringVar(&req.Email, "email", "", "your email")
	fs.StringVar(&req.Message, "message", "", "message")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.api.SendContact(ctx, req); err != nil {
		return err
	}
	fmt.Println("Thanks! We will get back to you soon.")
	return nil
}

func printAddresses(w io.Writer, list []api.Address) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved addresses.")
		return
	}
	for _, ad := range list {
		mark := " "
		if ad.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s [%s] %s, %s, %s %s\n", mark, ad.ID, ad.Type, ad.Address, ad.City, ad.State, ad.Pincode)
	}
}
