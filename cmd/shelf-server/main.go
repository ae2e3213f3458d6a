// Command shelf-server serves the book dashboard over HTTP against a remote
// store.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	shelf "github.com/goliatone/go-shelf"
	"github.com/goliatone/go-shelf/internal/config"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/renderers/vanilla"
	"github.com/goliatone/go-shelf/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		addrFlag      = flag.String("addr", cfg.HTTP.Addr, "HTTP listen address")
		storeFlag     = flag.String("store", cfg.Store.URL, "Remote store base URL")
		basePathFlag  = flag.String("base-path", cfg.HTTP.BasePath, "Path prefix the dashboard is mounted under")
		templatesFlag = flag.String("templates", "", "Templates directory overriding the embedded dashboard template")
		reconcileFlag = flag.String("reconcile", cfg.Store.Reconcile, "Collection reconcile mode after writes (local or refetch)")
		logLevelFlag  = flag.String("log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
		shutdownGrace = flag.Duration("grace", cfg.HTTP.ShutdownTimeout, "Shutdown grace period")
	)
	flag.Parse()

	cfg.Store.URL = strings.TrimSpace(*storeFlag)
	cfg.Log.Level = *logLevelFlag
	if err := cfg.RequireStore(); err != nil {
		log.Fatalf("config: %v", err)
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

	var vanillaOpts []vanilla.Option
	if dir := strings.TrimSpace(*templatesFlag); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			logger.Fatal("templates", zap.Error(err))
		}
		if !info.IsDir() {
			logger.Fatal("templates: not a directory", zap.String("path", dir))
		}
		vanillaOpts = append(vanillaOpts, vanilla.WithTemplatesDir(dir))
	}

	app, err := shelf.Open(cfg.Store.URL, cfg.Store.Timeout,
		shelf.WithLogger(logger),
		shelf.WithControllerOptions(dashboard.WithReconciler(reconciler)),
		shelf.WithVanillaOptions(vanillaOpts...),
	)
	if err != nil {
		logger.Fatal("build dashboard", zap.Error(err))
	}

	handler, err := app.Handler(web.WithBasePath(*basePathFlag))
	if err != nil {
		logger.Fatal("build handler", zap.Error(err))
	}

	var root http.Handler = handler
	if base := strings.TrimRight(*basePathFlag, "/"); base != "" {
		mux := http.NewServeMux()
		mux.Handle(base+"/", http.StripPrefix(base, handler))
		root = mux
	}

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first page shows skeleton rows until this returns.
	go func() {
		if err := app.Controller.Load(ctx); err != nil {
			logger.Warn("initial load failed", zap.Error(err))
		}
	}()

	logger.Info("listening",
		zap.String("addr", *addrFlag),
		zap.String("store", cfg.Store.URL),
		zap.String("reconcile", *reconcileFlag),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		logger.Fatal("listen", zap.Error(err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
