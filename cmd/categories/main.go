// Command categories scrapes the ProductHunt category taxonomy and saves
// the url/display name mapping used to normalize leaderboard categories.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"phrecap/internal/categories"
	"phrecap/internal/config"
	"phrecap/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	outFlag := flag.String("out", "", "output file (defaults to <output-dir>/producthunt_categories.json)")
	headless := flag.Bool("headless", true, "run browser headless")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := *outFlag
	if out == "" {
		out = filepath.Join(cfg.OutputDir, "producthunt_categories.json")
	}

	sc := categories.New(*headless, logger)
	cats, err := sc.ScrapeAll(ctx)
	if err != nil {
		logger.Error("category scrape failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}

	mapping := categories.BuildMapping(cats)
	if err := mapping.Save(out); err != nil {
		logger.Error("category mapping save failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}

	logger.Info("category taxonomy saved",
		slog.String("file", out),
		slog.Int("categories", len(cats)))
	fmt.Printf("📁 Saved %d categories to %s\n", len(cats), out)
	return 0
}
