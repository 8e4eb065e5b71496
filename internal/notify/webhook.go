// Package notify posts an optional end-of-run summary to a configured
// webhook. Delivery failures are logged and never fail the run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"phrecap/internal/ai"
	"phrecap/internal/domain"
)

// Webhook posts run summaries to a single URL.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// RunSummary is the webhook payload.
type RunSummary struct {
	Date          string   `json:"date"`
	TotalProducts int      `json:"total_products"`
	TopProduct    string   `json:"top_product"`
	Trending      []string `json:"trending_categories"`
	AICalls       int      `json:"ai_calls"`
	AITokens      int      `json:"ai_tokens"`
	AICost        float64  `json:"ai_cost"`
	ReportPath    string   `json:"report_path"`
}

// New creates a webhook notifier. url may be empty, in which case Send is
// a no-op.
func New(url string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Send posts the summary. Errors are returned for logging but callers are
// expected to treat them as non-fatal.
func (w *Webhook) Send(ctx context.Context, report *domain.DailyReport, ledger ai.Ledger, reportPath string) error {
	if w.url == "" {
		return nil
	}

	summary := RunSummary{
		Date:          report.Date,
		TotalProducts: report.MarketSummary.TotalProducts,
		TopProduct:    report.MarketSummary.TopProduct.Name,
		Trending:      report.MarketSummary.TrendingCategories,
		AICalls:       ledger.Calls,
		AITokens:      ledger.TotalTokens(),
		AICost:        ledger.Cost,
		ReportPath:    reportPath,
	}
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	w.logger.Info("run summary delivered", slog.String("webhook", w.url))
	return nil
}
