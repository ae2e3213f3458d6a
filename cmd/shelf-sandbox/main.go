// Command shelf-sandbox serves an in-memory book store that speaks the same
// REST contract as the hosted endpoint, for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/internal/config"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/store/mock"
	"github.com/goliatone/go-shelf/pkg/store/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		addrFlag      = flag.String("addr", cfg.Sandbox.Addr, "HTTP listen address")
		prefixFlag    = flag.String("prefix", "/books", "Collection path")
		seedFlag      = flag.Bool("seed", cfg.Sandbox.Seed, "Start with the bundled sample catalog")
		shutdownGrace = flag.Duration("grace", cfg.HTTP.ShutdownTimeout, "Shutdown grace period")
	)
	flag.Parse()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	backing := mock.New()
	if *seedFlag {
		drafts, err := book.Fixtures()
		if err != nil {
			logger.Fatal("load fixtures", zap.Error(err))
		}
		backing.Seed(drafts...)
	}

	handler := sandbox.New(backing,
		sandbox.WithLogger(logger.Named("sandbox")),
		sandbox.WithPrefix(*prefixFlag),
	)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("sandbox listening",
		zap.String("addr", *addrFlag),
		zap.String("prefix", handler.Prefix()),
		zap.Int("records", backing.Len()),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
