// storefront is a command-line shopper for the Mithai storefront API. The session is kept in a
// local JSON file so later commands reuse the login.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/client"
	"github.com/karan399/milkman/internal/client/session"
	"github.com/karan399/milkman/internal/logging"
)

const usage = `usage: storefront [flags] <command> [args]

commands:
  login <phone>          request a code and sign in
  whoami                 show the signed-in user
  logout                 sign out
  profile [-name] [-email]
  addresses              list saved addresses
  add-address [flags]    save an address (see storefront add-address -h)
  default-address <id>   make an address the default
  delete-address <id>    remove an address
  delivery <pincode>     check whether we deliver to a pincode
  contact [flags]        send us a message
  shop                   browse the menu, fill a cart and check out (cash on delivery)
  giftbox                build a gift box of 4 sweets, then keep shopping
`

type app struct {
	api   *client.API
	store *session.Store
	log   *zap.Logger
}

func main() {
	apiURL := flag.String("api", envOr("MITHAI_API_URL", "http://localhost:8080"), "storefront API base URL")
	statePath := flag.String("state", defaultStatePath(), "session file")
	env := flag.String("env", envOr("APP_ENV", "development"), "log format: development or production")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logging.New(*env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	api := client.New(*apiURL, client.WithHeader("x-client-info", "storefront-cli"))
	a := &app{api: api, store: session.NewStore(api, session.NewFileStorage(*statePath), log), log: log}
	if err := a.store.Restore(); err != nil {
		log.Warn("could not restore session", zap.Error(err))
	}

	if err := a.run(context.Background(), flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "whoami":
		return a.whoami()
	case "logout":
		return a.logout(ctx)
	case "profile":
		return a.profile(ctx, args)
	case "addresses":
		return a.addresses(ctx)
	case "add-address":
		return a.addAddress(ctx, args)
	case "default-address":
		return a.defaultAddress(ctx, args)
	case "delete-address":
		return a.deleteAddress(ctx, args)
	case "delivery":
		return a.delivery(ctx, args)
	case "contact":
		return a.contact(ctx, args)
	case "shop":
		return a.shop(ctx, os.Stdin, os.Stdout)
	case "giftbox":
		return a.shop(ctx, io.MultiReader(strings.NewReader("giftbox\n"), os.Stdin), os.Stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "mithai-session.json"
	}
	return filepath.Join(dir, "mithai", "session.json")
}
