package ai

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"phrecap/internal/domain"
)

// Parser converts raw model output into a validated AnalysisResult. A parse
// failure is terminal for that one call: it is a content failure, not a
// delivery failure, so nothing here retries.
type Parser struct {
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewParser builds a parser with the standard struct validator.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Parse validates a per-product response against the mode's schema. It
// returns the result plus the model's competitive score (meaningful only
// when the result is available).
func (p *Parser) Parse(raw string, mode domain.Mode) (*domain.AnalysisResult, float64) {
	switch mode {
	case domain.ModeDetailed:
		var payload DetailedAnalysis
		if ok := p.decode(raw, &payload); !ok {
			return domain.Unavailable(domain.ReasonMalformedResponse), 0
		}
		return p.success(mode, payload, payload.Confidence), payload.CompetitiveScore
	case domain.ModeMarketFocus:
		var payload MarketFocusAnalysis
		if ok := p.decode(raw, &payload); !ok {
			return domain.Unavailable(domain.ReasonMalformedResponse), 0
		}
		return p.success(mode, payload, payload.Confidence), payload.CompetitiveScore
	default:
		var payload QuickAnalysis
		if ok := p.decode(raw, &payload); !ok {
			return domain.Unavailable(domain.ReasonMalformedResponse), 0
		}
		return p.success(mode, payload, payload.Confidence), payload.CompetitiveScore
	}
}

// ParseMarket validates the aggregate market summary response.
func (p *Parser) ParseMarket(raw string) *domain.AnalysisResult {
	var payload MarketAnalysis
	if ok := p.decode(raw, &payload); !ok {
		return domain.Unavailable(domain.ReasonMalformedResponse)
	}
	return p.success(domain.ModeMarketFocus, payload, payload.Confidence)
}

// decode locates the JSON object inside the raw text, unmarshals it into
// dst and runs schema validation. All-or-nothing: any failure rejects the
// whole response.
func (p *Parser) decode(raw string, dst any) bool {
	payload, ok := extractJSON(raw)
	if !ok {
		p.logger.Warn("no JSON object found in model response")
		return false
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		p.logger.Warn("model response is not valid JSON", slog.String("error", err.Error()))
		return false
	}
	if err := p.validate.Struct(dst); err != nil {
		p.logger.Warn("model response failed schema validation", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (p *Parser) success(mode domain.Mode, payload any, confidence float64) *domain.AnalysisResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.Unavailable(domain.ReasonMalformedResponse)
	}
	return &domain.AnalysisResult{
		Status:      domain.StatusSuccess,
		Mode:        mode,
		Confidence:  confidence,
		Data:        data,
		GeneratedAt: p.now().UTC(),
	}
}

// extractJSON returns the first balanced top-level JSON object in s. The
// model may wrap its payload in prose or code fences.
func extractJSON(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
