package ai

import (
	"fmt"
	"strings"

	"phrecap/internal/domain"
)

// Request is one analysis call, derived from a product (or the whole day's
// listing for the market summary) plus a mode. It is built immediately
// before the call and not retained afterwards.
type Request struct {
	Subject   string // product name or "market" for the aggregate call
	Mode      domain.Mode
	System    string
	Prompt    string
	MaxTokens int
	Market    bool
}

// Completion budgets per mode. Quick answers are categorization one-liners,
// detailed is a full competitive profile, market-focus sits in between.
func completionBudget(mode domain.Mode) int {
	switch mode {
	case domain.ModeDetailed:
		return 800
	case domain.ModeMarketFocus:
		return 500
	default:
		return 200
	}
}

// EstimatedTokens is the admission estimate handed to the Governor before
// the call: prompt overhead plus the mode's completion budget. The ledger
// is settled with real usage afterwards.
func (r Request) EstimatedTokens() int {
	return len(r.Prompt)/4 + len(r.System)/4 + r.MaxTokens
}

const systemPrompt = `You are a market analyst for entrepreneurs reviewing today's ProductHunt launches.
Respond with a single JSON object and nothing else. Use exactly the fields requested.`

// NewProductRequest builds the per-product analysis request for a mode.
func NewProductRequest(p domain.Product, mode domain.Mode) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\nTagline: %s\nVotes: %d\nComments: %d\nCategory: %s\nMaker: %s\n\n",
		p.Name, p.Tagline, p.Votes, p.Comments, p.Category, p.Maker)

	switch mode {
	case domain.ModeDetailed:
		b.WriteString(`Produce a full competitive profile as JSON:
{"company_profile":{"business_model":"...","target_market":"...","competitive_advantages":["..."],"potential_weaknesses":["..."],"funding_stage":"...","team_analysis":"..."},"market_positioning":{"differentiation":"...","market_fit":"...","pricing_strategy":"...","growth_potential":"..."},"competitive_intelligence":{"threat_to_market":"low|medium|high","disruption_potential":"...","recommended_action":"...","strategic_implications":"..."},"competitive_score":0.0,"confidence":0.0}
competitive_score is 0-10, confidence is 0-1.`)
	case domain.ModeMarketFocus:
		b.WriteString(`Assess how this launch fits today's market trends as JSON:
{"category":"...","trend_alignment":"...","momentum":"rising|steady|fading","competitive_score":0.0,"confidence":0.0}
competitive_score is 0-10, confidence is 0-1.`)
	default:
		b.WriteString(`Classify this product as JSON:
{"category":"...","market_fit":"one sentence","competitive_score":0.0,"confidence":0.0}
competitive_score is 0-10, confidence is 0-1.`)
	}

	return Request{
		Subject:   p.Name,
		Mode:      mode,
		System:    systemPrompt,
		Prompt:    b.String(),
		MaxTokens: completionBudget(mode),
	}
}

// NewMarketRequest builds the single aggregate call issued after all
// per-product analyses. It is always trend-oriented regardless of the
// per-product mode.
func NewMarketRequest(date string, products []domain.Product) Request {
	var b strings.Builder
	fmt.Fprintf(&b, "ProductHunt launches for %s (%d products):\n", date, len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s, %d votes): %s\n", p.Name, p.Category, p.Votes, p.Tagline)
	}
	b.WriteString(`
Summarize the day's market as JSON:
{"dominant_trend":"...","market_sentiment":"bullish|neutral|bearish","opportunities":["..."],"risks":["..."],"summary":"...","confidence":0.0}
confidence is 0-1.`)

	return Request{
		Subject:   "market",
		Mode:      domain.ModeMarketFocus,
		System:    systemPrompt,
		Prompt:    b.String(),
		MaxTokens: completionBudget(domain.ModeMarketFocus),
		Market:    true,
	}
}
