// Package enrich drives the analysis-enrichment pipeline: it walks the
// scraped products in order, runs the governed, retried AI call per
// product plus one aggregate market call, and assembles the daily report.
// One product's failure never affects the others; budget exhaustion
// degrades the remainder of the run instead of aborting it.
package enrich

import (
	"context"
	"errors"
	"log/slog"

	"phrecap/internal/ai"
	"phrecap/internal/domain"
)

// Analyzer is the single-call analysis client. *ai.Client implements it;
// tests substitute fakes.
type Analyzer interface {
	Analyze(ctx context.Context, req ai.Request) (*ai.Response, error)
}

// Orchestrator owns one run's pipeline wiring.
type Orchestrator struct {
	analyzer Analyzer
	governor *ai.Governor
	retry    *ai.RetryPolicy
	parser   *ai.Parser
	logger   *slog.Logger
}

// New wires the pipeline. governor may be nil only when AI analysis is
// disabled for the run.
func New(analyzer Analyzer, governor *ai.Governor, retry *ai.RetryPolicy, parser *ai.Parser, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		analyzer: analyzer,
		governor: governor,
		retry:    retry,
		parser:   parser,
		logger:   logger,
	}
}

// Enrich processes the scraped records in scrape order and assembles the
// daily report. If ctx is cancelled mid-run no report is assembled; a
// partial run never produces output.
func (o *Orchestrator) Enrich(ctx context.Context, date string, records []domain.Product, mode domain.Mode, aiEnabled bool) (*domain.DailyReport, error) {
	records = domain.DedupeByURL(records)

	enriched := make([]domain.EnrichedProduct, 0, len(records))
	budgetExhausted := false

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var result *domain.AnalysisResult
		var aiScore float64
		switch {
		case !aiEnabled:
			result = domain.Unavailable(domain.ReasonDisabled)
		case budgetExhausted:
			result = domain.Unavailable(domain.ReasonBudgetExceeded)
		default:
			result, aiScore = o.analyzeProduct(ctx, rec, mode)
			if result.Reason == domain.ReasonBudgetExceeded {
				budgetExhausted = true
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		score := aiScore
		if !result.Available() {
			score = domain.CompetitiveScore(rec.Votes, rec.Comments)
		}

		enriched = append(enriched, domain.EnrichedProduct{
			Product:          rec,
			CompetitiveScore: score,
			AIAnalysis:       result,
		})
	}

	summary := domain.MarketSummary{
		TotalProducts:      len(records),
		TrendingCategories: domain.TrendingCategories(records),
		TopProduct:         domain.TopVoted(records),
	}

	switch {
	case !aiEnabled:
		summary.AIMarketAnalysis = domain.Unavailable(domain.ReasonDisabled)
	case budgetExhausted:
		summary.AIMarketAnalysis = domain.Unavailable(domain.ReasonBudgetExceeded)
	default:
		summary.AIMarketAnalysis = o.analyzeMarket(ctx, date, records)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.DailyReport{
		Date:          date,
		MarketSummary: summary,
		Products:      enriched,
	}, nil
}

// analyzeProduct runs one governed, retried analysis call and parses the
// response. Every failure degrades to an unavailable result; nothing here
// aborts the run.
func (o *Orchestrator) analyzeProduct(ctx context.Context, rec domain.Product, mode domain.Mode) (*domain.AnalysisResult, float64) {
	req := ai.NewProductRequest(rec, mode)
	resp, err := o.call(ctx, req)
	if err != nil {
		return o.degrade(err, rec.Name), 0
	}
	result, score := o.parser.Parse(resp.Text, mode)
	if !result.Available() {
		o.logger.Warn("analysis response rejected",
			slog.String("product", rec.Name),
			slog.String("reason", string(result.Reason)))
	}
	return result, score
}

// analyzeMarket issues the single aggregate call after all per-record
// processing, under the same budget and retry rules.
func (o *Orchestrator) analyzeMarket(ctx context.Context, date string, records []domain.Product) *domain.AnalysisResult {
	req := ai.NewMarketRequest(date, records)
	resp, err := o.call(ctx, req)
	if err != nil {
		return o.degrade(err, "market summary")
	}
	result := o.parser.ParseMarket(resp.Text)
	if !result.Available() {
		o.logger.Warn("market analysis response rejected",
			slog.String("reason", string(result.Reason)))
	}
	return result
}

// call wraps one request in the retry policy. The governor is consulted
// inside the attempt function, exactly once per actual attempt.
func (o *Orchestrator) call(ctx context.Context, req ai.Request) (*ai.Response, error) {
	var resp *ai.Response
	err := o.retry.Do(ctx, "analyze "+req.Subject, func() error {
		if err := o.governor.Admit(ctx, req.EstimatedTokens()); err != nil {
			return err
		}
		var callErr error
		resp, callErr = o.analyzer.Analyze(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// degrade maps a pipeline error to the unavailable reason for one record.
func (o *Orchestrator) degrade(err error, subject string) *domain.AnalysisResult {
	switch {
	case errors.Is(err, ai.ErrBudgetExceeded):
		return domain.Unavailable(domain.ReasonBudgetExceeded)
	case ai.IsFatal(err):
		o.logger.Error("analysis call failed permanently",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return domain.Unavailable(domain.ReasonRequestFailed)
	case ai.IsTransient(err):
		o.logger.Warn("analysis retries exhausted",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return domain.Unavailable(domain.ReasonExhaustedRetries)
	default:
		// context cancellation surfaces via ctx.Err checks in Enrich
		o.logger.Warn("analysis call aborted",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return domain.Unavailable(domain.ReasonRequestFailed)
	}
}
