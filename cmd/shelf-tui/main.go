// Command shelf-tui runs the book dashboard as an interactive terminal
// session against a remote store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	shelf "github.com/goliatone/go-shelf"
	"github.com/goliatone/go-shelf/internal/config"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/renderers/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		storeFlag     = flag.String("store", cfg.Store.URL, "Remote store base URL")
		reconcileFlag = flag.String("reconcile", cfg.Store.Reconcile, "Collection reconcile mode after writes (local or refetch)")
		logFileFlag   = flag.String("log-file", "", "Write logs to this file instead of stderr")
		titleFlag     = flag.String("title", "", "Heading printed above the table")
	)
	flag.Parse()

	cfg.Store.URL = strings.TrimSpace(*storeFlag)
	if err := cfg.RequireStore(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *logFileFlag != "" {
		cfg.Log.Output = *logFileFlag
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reconciler, err := shelf.ReconcilerFor(strings.ToLower(*reconcileFlag))
	if err != nil {
		logger.Fatal("reconcile mode", zap.Error(err))
	}

	app, err := shelf.Open(cfg.Store.URL, cfg.Store.Timeout,
		shelf.WithLogger(logger),
		shelf.WithControllerOptions(dashboard.WithReconciler(reconciler)),
	)
	if err != nil {
		logger.Fatal("build dashboard", zap.Error(err))
	}

	session, err := app.Session(tui.WithOutput(os.Stdout), tui.WithTitle(*titleFlag))
	if err != nil {
		logger.Fatal("build session", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil {
		logger.Error("session ended", zap.Error(err))
		os.Exit(1)
	}
}
