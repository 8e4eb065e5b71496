package ai

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// Ledger is a snapshot of the run's cumulative AI spend. It lives exactly
// one run: created at start, read once at the end, discarded.
type Ledger struct {
	Calls        int
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// TotalTokens returns cumulative input plus output tokens.
func (l Ledger) TotalTokens() int { return l.InputTokens + l.OutputTokens }

// Governor gates every analysis call of a run. It enforces minimum
// inter-call spacing via a token bucket and a hard daily cost ceiling, and
// is the single writer to the cost ledger.
type Governor struct {
	limiter   *rate.Limiter
	tokenRate float64 // currency per token
	maxCost   float64
	logger    *slog.Logger

	mu     sync.Mutex
	ledger Ledger
}

// NewGovernor builds a governor allowing one call per spacing interval with
// a cumulative cost ceiling of maxCost. tokenRate is the configured
// currency-per-token price used for both admission estimates and ledger
// settlement.
func NewGovernor(callsPerSecond float64, tokenRate, maxCost float64, logger *slog.Logger) *Governor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Governor{
		limiter:   rate.NewLimiter(rate.Limit(callsPerSecond), 1),
		tokenRate: tokenRate,
		maxCost:   maxCost,
		logger:    logger,
	}
}

// Admit gates one upcoming call. The budget check is a hard fail: once the
// estimated spend would pass the ceiling, ErrBudgetExceeded is returned
// without waiting. Otherwise Admit blocks until the inter-call spacing is
// satisfied or ctx is cancelled.
func (g *Governor) Admit(ctx context.Context, estimatedTokens int) error {
	g.mu.Lock()
	projected := g.ledger.Cost + float64(estimatedTokens)*g.tokenRate
	if projected > g.maxCost {
		g.mu.Unlock()
		g.logger.Warn("AI budget ceiling reached, skipping remaining calls",
			slog.Float64("spent", g.ledger.Cost),
			slog.Float64("projected", projected),
			slog.Float64("ceiling", g.maxCost))
		return ErrBudgetExceeded
	}
	g.mu.Unlock()

	return g.limiter.Wait(ctx)
}

// RecordUsage settles the ledger with the endpoint-reported usage of one
// completed call. Implements UsageRecorder.
func (g *Governor) RecordUsage(inputTokens, outputTokens int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ledger.Calls++
	g.ledger.InputTokens += inputTokens
	g.ledger.OutputTokens += outputTokens
	g.ledger.Cost += float64(inputTokens+outputTokens) * g.tokenRate
}

// Snapshot returns a copy of the ledger for end-of-run reporting.
func (g *Governor) Snapshot() Ledger {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger
}
