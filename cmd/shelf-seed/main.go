// Command shelf-seed posts a catalog of books to a remote store, either the
// bundled sample catalog or a YAML list of drafts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/internal/config"
	"github.com/goliatone/go-shelf/internal/logging"
	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/store"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [catalog.yaml]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nCreate every book of the catalog in the remote store. Without a file the bundled sample catalog is used.\n\n"); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		storeFlag   = flag.String("store", cfg.Store.URL, "Remote store base URL")
		timeoutFlag = flag.Duration("timeout", time.Minute, "Overall deadline")
		dryRunFlag  = flag.Bool("dry-run", false, "Print the catalog without contacting the store")
		failFast    = flag.Bool("fail-fast", false, "Stop at the first book the store rejects")
	)
	flag.Parse()

	drafts, err := loadCatalog(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		for _, d := range drafts {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", d.Title, d.Author, d.Genre, book.FormatYear(d.PublishedYear), d.Status)
		}
		return
	}

	cfg.Store.URL = strings.TrimSpace(*storeFlag)
	if err := cfg.RequireStore(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := store.NewClient(cfg.Store.URL)
	if err != nil {
		logger.Fatal("store client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	created, err := seed(ctx, client, drafts, *failFast, logger)
	logger.Info("seed finished",
		zap.Int("created", created),
		zap.Int("failed", len(drafts)-created),
		zap.Int("total", len(drafts)),
	)
	if err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadCatalog(path string) ([]book.Draft, error) {
	if path == "" {
		return book.Fixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return book.ParseDrafts(data)
}

// seed creates drafts in order. A failed create is logged and the remaining
// drafts are still posted; with failFast the first failure ends the run. The
// returned error joins every failure.
func seed(ctx context.Context, s store.Store, drafts []book.Draft, failFast bool, logger *zap.Logger) (int, error) {
	created := 0
	var errs []error
	for i, draft := range drafts {
		b, err := s.Create(ctx, draft)
		if err != nil {
			logger.Warn("failed to add book", zap.Int("index", i+1), zap.String("title", draft.Title), zap.Error(err))
			errs = append(errs, fmt.Errorf("create #%d %q: %w", i+1, draft.Title, err))
			if failFast {
				break
			}
			continue
		}
		created++
		logger.Debug("created", zap.String("id", b.ID), zap.String("title", b.Title))
	}
	return created, errors.Join(errs...)
}
