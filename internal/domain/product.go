package domain

// Product is one scraped ProductHunt launch. The URL uniquely identifies a
// product within a run; DedupeByURL enforces that.
type Product struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline"`
	Votes      int    `json:"votes"`
	Comments   int    `json:"comments"`
	URL        string `json:"url"`
	Maker      string `json:"maker"`
	Category   string `json:"category"`
	LaunchedAt string `json:"launched_at"`
}

// EnrichedProduct is a Product plus its analysis outcome. AIAnalysis is
// always set: either a validated payload or an unavailable marker with a
// reason code.
type EnrichedProduct struct {
	Product
	CompetitiveScore float64         `json:"competitive_score"`
	AIAnalysis       *AnalysisResult `json:"ai_analysis"`
}

// DedupeByURL drops later occurrences of products sharing a URL, keeping
// scrape order otherwise.
func DedupeByURL(products []Product) []Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.URL]; ok {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}

// CompetitiveScore is the deterministic fallback used when AI analysis is
// unavailable. It is monotonic in both votes and comments and clamped to
// [0,10]: votes saturate around the half-point of 40 and engagement via
// comments contributes up to a further 15%.
func CompetitiveScore(votes, comments int) float64 {
	if votes < 0 {
		votes = 0
	}
	if comments < 0 {
		comments = 0
	}
	v := float64(votes)
	c := float64(comments)
	score := 10 * (v / (v + 40)) * (0.85 + 0.15*(c/(c+10)))
	if score > 10 {
		score = 10
	}
	// one decimal keeps the report stable across platforms
	return float64(int(score*10+0.5)) / 10
}
