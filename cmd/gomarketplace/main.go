package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/gomarketplace/internal/cli"
	"github.com/Makepad-fr/gomarketplace/internal/config"
	"github.com/Makepad-fr/gomarketplace/internal/logger"
	"github.com/Makepad-fr/gomarketplace/internal/ui"
)

func main() {
	cfg := config.Load()

	// Root flags (apply to every subcommand); env provides the defaults.
	flag.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: file | bunt | redis | memory")
	flag.StringVar(&cfg.DataPath, "data", cfg.DataPath, "data file for the file and bunt backends")
	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "catalog JSON file (built-in catalog when empty)")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address for the redis backend")
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address for serve")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "classic | neon | mono")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Parse()

	ui.SetTheme(cfg.Theme)
	if *noColor {
		ui.SetColorForcing(false, true)
	}
	log := logger.New(os.Stderr, logger.Options{Env: cfg.AppEnv, Level: cfg.LogLevel})

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Config: cfg,
		Logger: log,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
