package ai

// Expected response shapes per mode. Validation is all-or-nothing: every
// required field must be present with a semantically valid value or the
// whole response is rejected as malformed.

// QuickAnalysis is the reduced quick-mode payload: a category call and a
// one-line market-fit assessment.
type QuickAnalysis struct {
	Category         string  `json:"category" validate:"required"`
	MarketFit        string  `json:"market_fit" validate:"required"`
	CompetitiveScore float64 `json:"competitive_score" validate:"min=0,max=10"`
	Confidence       float64 `json:"confidence" validate:"min=0,max=1"`
}

// DetailedAnalysis is the full competitive profile.
type DetailedAnalysis struct {
	CompanyProfile struct {
		BusinessModel         string   `json:"business_model" validate:"required"`
		TargetMarket          string   `json:"target_market" validate:"required"`
		CompetitiveAdvantages []string `json:"competitive_advantages" validate:"required,min=1,dive,required"`
		PotentialWeaknesses   []string `json:"potential_weaknesses" validate:"required,min=1,dive,required"`
		FundingStage          string   `json:"funding_stage" validate:"required"`
		TeamAnalysis          string   `json:"team_analysis" validate:"required"`
	} `json:"company_profile"`
	MarketPositioning struct {
		Differentiation string `json:"differentiation" validate:"required"`
		MarketFit       string `json:"market_fit" validate:"required"`
		PricingStrategy string `json:"pricing_strategy" validate:"required"`
		GrowthPotential string `json:"growth_potential" validate:"required"`
	} `json:"market_positioning"`
	CompetitiveIntelligence struct {
		ThreatToMarket        string `json:"threat_to_market" validate:"required,oneof=low medium high"`
		DisruptionPotential   string `json:"disruption_potential" validate:"required"`
		RecommendedAction     string `json:"recommended_action" validate:"required"`
		StrategicImplications string `json:"strategic_implications" validate:"required"`
	} `json:"competitive_intelligence"`
	CompetitiveScore float64 `json:"competitive_score" validate:"min=0,max=10"`
	Confidence       float64 `json:"confidence" validate:"min=0,max=1"`
}

// MarketFocusAnalysis is the trend-oriented per-product payload.
type MarketFocusAnalysis struct {
	Category         string  `json:"category" validate:"required"`
	TrendAlignment   string  `json:"trend_alignment" validate:"required"`
	Momentum         string  `json:"momentum" validate:"required,oneof=rising steady fading"`
	CompetitiveScore float64 `json:"competitive_score" validate:"min=0,max=10"`
	Confidence       float64 `json:"confidence" validate:"min=0,max=1"`
}

// MarketAnalysis is the aggregate day summary payload.
type MarketAnalysis struct {
	DominantTrend   string   `json:"dominant_trend" validate:"required"`
	MarketSentiment string   `json:"market_sentiment" validate:"required,oneof=bullish neutral bearish"`
	Opportunities   []string `json:"opportunities" validate:"required,min=1,dive,required"`
	Risks           []string `json:"risks" validate:"required,min=1,dive,required"`
	Summary         string   `json:"summary" validate:"required"`
	Confidence      float64  `json:"confidence" validate:"min=0,max=1"`
}
