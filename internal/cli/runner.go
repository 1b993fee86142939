package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Makepad-fr/gomarketplace/internal/auth"
	"github.com/Makepad-fr/gomarketplace/internal/cart"
	"github.com/Makepad-fr/gomarketplace/internal/catalog"
	"github.com/Makepad-fr/gomarketplace/internal/config"
	"github.com/Makepad-fr/gomarketplace/internal/httpapi"
	"github.com/Makepad-fr/gomarketplace/internal/store"
	"github.com/Makepad-fr/gomarketplace/internal/store/memstore"
	"github.com/Makepad-fr/gomarketplace/internal/tui"
	"github.com/Makepad-fr/gomarketplace/internal/ui"
)

// Options carry what the root command resolved from env and flags.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	Stdin  io.Reader
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return withCart(ctx, opt, false, doList)

	case "shop":
		// log lines would tear the alt screen
		if !opt.Logger.Enabled(ctx, slog.LevelDebug) {
			opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		return withCart(ctx, opt, true, func(ctx context.Context, opt Options) int {
			return doShop(ctx, opt)
		})

	case "add", "inc", "dec":
		if len(a) != 1 {
			ui.Fail(fmt.Sprintf("usage: gomarketplace %s <id>", cmd))
			return 2
		}
		id := strings.TrimSpace(a[0])
		return withCart(ctx, opt, false, func(ctx context.Context, opt Options) int {
			switch cmd {
			case "add":
				return doAdd(ctx, opt, id)
			case "inc":
				return doStep(ctx, id, true)
			default:
				return doStep(ctx, id, false)
			}
		})

	case "serve":
		if len(a) != 0 {
			ui.Fail("usage: gomarketplace [flags] serve (set the address with the root -addr flag)")
			return 2
		}
		return doServe(ctx, opt)

	case "auth":
		if len(a) != 1 {
			ui.Fail("usage: gomarketplace auth <login|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(opt)
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		}
		ui.Fail("usage: gomarketplace auth <login|logout|status>")
		return 2
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`gomarketplace - a tiny storefront cart

Usage:
  gomarketplace [flags] <subcommand> [args]

Subcommands:
  shop               Browse the catalog and edit the cart (interactive TUI)
  ls                 Show the cart
  add <id>           Add a catalog product (again = one more)
  inc <id>           One more of a cart line
  dec <id>           One less of a cart line (never below 1)
  serve              Serve the cart over HTTP
  auth <login|logout|status>   Token for the HTTP API

Examples:
  gomarketplace add 3
  gomarketplace -store bunt ls
  gomarketplace -addr :8080 serve
`)
}

// -------------- subcommand impls ----------------

// openStore opens the configured backend. With inMemory set, a backend that
// is configured right but unreachable is replaced by process memory for
// this session; one-shot commands exist to persist, so they fail instead.
func openStore(ctx context.Context, opt Options, inMemory bool) (*cart.Store, func() error, error) {
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := opt.Config
	storage, closeFn, err := store.Open(ctx, store.Config{
		Backend:       c.Store,
		Path:          c.DataPath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPass,
		RedisPrefix:   c.RedisPfx,
		Logger:        opt.Logger,
	})
	if err != nil {
		if !inMemory || errors.Is(err, store.ErrUnknownBackend) {
			return nil, nil, err
		}
		opt.Logger.Warn("storage unavailable, keeping the cart in memory", "backend", c.Store, "err", err)
		ui.Hint("storage unavailable (" + err.Error() + "): the cart will not be saved this session")
		storage, closeFn = memstore.New(), func() error { return nil }
	}
	return cart.New(storage, cart.WithLogger(opt.Logger)), closeFn, nil
}

// withCart opens storage and runs fn inside a provider scope.
func withCart(ctx context.Context, opt Options, inMemory bool, fn func(context.Context, Options) int) int {
	s, closeFn, err := openStore(ctx, opt, inMemory)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		return 1
	}
	defer func() {
		if err := closeFn(); err != nil {
			opt.Logger.Warn("storage close failed", "err", err)
		}
	}()
	return fn(cart.Provide(ctx, s), opt)
}

func doList(ctx context.Context, _ Options) int {
	ui.Panel(ui.CartLines(cart.Use(ctx).Products()))
	return 0
}

func doShop(ctx context.Context, opt Options) int {
	products, err := catalog.Load(opt.Config.Catalog)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if err := tui.Run(ctx, products); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(ctx context.Context, opt Options, id string) int {
	products, err := catalog.Load(opt.Config.Catalog)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	p, ok := catalog.Find(products, id)
	if !ok {
		ui.Fail("add: no catalog product with id " + id)
		return 2
	}
	c := cart.Use(ctx)
	c.AddToCart(ctx, p)
	ui.OK(fmt.Sprintf("added %s (%d in cart)", p.Title, quantityOf(c, id)))
	return 0
}

func doStep(ctx context.Context, id string, up bool) int {
	c := cart.Use(ctx)
	before := quantityOf(c, id)
	if up {
		c.Increment(ctx, id)
	} else {
		c.Decrement(ctx, id)
	}
	after := quantityOf(c, id)

	switch {
	case before == 0:
		ui.Hint("Hint: " + id + " is not in the cart, run `gomarketplace ls`")
	case before == after:
		ui.OK(fmt.Sprintf("%s stays at %d", id, after))
	default:
		ui.OK(fmt.Sprintf("%s: %d → %d", id, before, after))
	}
	return 0
}

func quantityOf(c cart.Cart, id string) int {
	for _, p := range c.Products() {
		if p.ID == id {
			return p.Quantity
		}
	}
	return 0
}

func doServe(ctx context.Context, opt Options) int {
	s, closeFn, err := openStore(ctx, opt, true)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		return 1
	}
	defer closeFn()
	s.Load(ctx)

	token := ""
	if ti, err := auth.Get(); err != nil {
		opt.Logger.Warn("auth token unavailable, serving without it", "err", err)
	} else if ti != nil {
		token = ti.Token
	}

	srv := &http.Server{
		Addr:              opt.Config.HTTPAddr,
		Handler:           httpapi.NewRouter(s, token),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		opt.Logger.Info("cart api listening", "addr", srv.Addr, "auth", token != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			ui.Fail("serve: " + err.Error())
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			ui.Fail("shutdown: " + err.Error())
			return 1
		}
	}
	return 0
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doAuthLogin(opt Options) int {
	fmt.Print("Paste your token: ")
	token, err := bufio.NewReader(opt.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.Set(token); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.Get()
	if err != nil {
		ui.Fail("auth: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Println(ui.C(ui.Current().Muted, "no token: the HTTP API is open"))
		fmt.Println("Run: gomarketplace auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if !ti.CreatedAt.IsZero() {
		fmt.Printf("saved: %s\n", ti.CreatedAt.UTC().Format(time.RFC3339))
	}
	return 0
}
