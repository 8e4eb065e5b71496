// Command recap scrapes the day's ProductHunt launches, optionally runs
// AI-powered market analysis on each product, and writes the daily
// market-intel report file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"phrecap/internal/ai"
	"phrecap/internal/config"
	"phrecap/internal/domain"
	"phrecap/internal/enrich"
	"phrecap/internal/infrastructure"
	"phrecap/internal/notify"
	"phrecap/internal/report"
	"phrecap/internal/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	aiAnalysis := flag.Bool("ai-analysis", false, "enable AI analysis of products and market trends")
	modeFlag := flag.String("mode", "", "AI analysis depth mode: quick | detailed | market-focus")
	dateFlag := flag.String("date", "", "date to analyze (YYYY-MM-DD); defaults to today")
	outputDir := flag.String("output-dir", "", "directory to save output files")
	quiet := flag.Bool("quiet", false, "suppress output except errors")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	headless := flag.Bool("headless", true, "run browser headless")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// flags override config
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *modeFlag != "" {
		cfg.AIAnalysisMode = *modeFlag
	}
	switch {
	case *quiet:
		cfg.Logging.Level = "error"
	case *verbose:
		cfg.Logging.Level = "debug"
	}

	mode, err := domain.ParseMode(cfg.AIAnalysisMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	date := *dateFlag
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --date: %v\n", err)
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
	ctx = infrastructure.WithRunID(ctx, uuid.NewString())

	aiEnabled := *aiAnalysis
	if aiEnabled && !cfg.AIEnabled() {
		logger.WarnContext(ctx, "ANTHROPIC_API_KEY not set, AI analysis will be disabled")
		aiEnabled = false
	}

	logger.InfoContext(ctx, "ProductHunt daily recap starting",
		slog.String("date", date),
		slog.Bool("ai_analysis", aiEnabled),
		slog.String("mode", string(mode)),
		slog.String("output_dir", cfg.OutputDir))

	if !*quiet {
		fmt.Println("🚀 ProductHunt Daily Recap")
		fmt.Printf("📅 Date: %s\n", date)
		if aiEnabled {
			fmt.Printf("🤖 AI Analysis: enabled (%s)\n", mode)
		} else {
			fmt.Println("🤖 AI Analysis: disabled")
		}
	}

	sc := scraper.New(scraper.Options{
		Headless:    *headless,
		UserAgent:   cfg.UserAgent,
		Delay:       cfg.ScrapingDelay,
		MaxAttempts: cfg.MaxRetries,
		Logger:      logger,
	})
	products, err := sc.DailyProducts(ctx, date)
	if err != nil {
		logger.ErrorContext(ctx, "listing scrape failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}

	governor := ai.NewGovernor(1/cfg.CallSpacing.Seconds(), cfg.TokenRate, cfg.MaxDailyAICost, logger)
	client := ai.NewClient(cfg.AnthropicAPIKey, cfg.AIModel, governor, logger)
	retry := ai.DefaultRetryPolicy(logger)
	retry.MaxAttempts = cfg.MaxRetries

	orch := enrich.New(client, governor, retry, ai.NewParser(logger), logger)
	daily, err := orch.Enrich(ctx, date, products, mode, aiEnabled)
	if err != nil {
		// cancellation mid-run: nothing partial is written
		logger.ErrorContext(ctx, "run aborted before report assembly", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}

	path, err := report.Write(daily, cfg.OutputDir)
	if err != nil {
		logger.ErrorContext(ctx, "report write failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return 1
	}

	ledger := governor.Snapshot()
	logger.InfoContext(ctx, "run complete",
		slog.String("report", path),
		slog.Int("products", len(daily.Products)),
		slog.Int("ai_calls", ledger.Calls),
		slog.Int("ai_tokens", ledger.TotalTokens()),
		slog.Float64("ai_cost", ledger.Cost))

	if !*quiet {
		fmt.Printf("📁 Report: %s\n", path)
		if aiEnabled {
			fmt.Printf("💰 AI usage: %d calls, %d tokens, $%.4f\n",
				ledger.Calls, ledger.TotalTokens(), ledger.Cost)
		}
	}

	if cfg.WebhookURL != "" {
		wh := notify.New(cfg.WebhookURL, logger)
		if err := wh.Send(ctx, daily, ledger, path); err != nil {
			logger.WarnContext(ctx, "webhook notification failed", slog.String("error", err.Error()))
		}
	}

	return 0
}
