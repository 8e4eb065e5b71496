package domain

import "sort"

// trendingLimit caps the trending category list in the market summary.
const trendingLimit = 3

// TopProduct references the highest-voted product of the day.
type TopProduct struct {
	Name     string `json:"name"`
	Votes    int    `json:"votes"`
	Category string `json:"category"`
}

// MarketSummary aggregates one run. TrendingCategories and TopProduct are
// computed deterministically from the raw records and never depend on AI
// availability; AIMarketAnalysis follows the same success/unavailable
// contract as per-product analyses.
type MarketSummary struct {
	TotalProducts      int             `json:"total_products"`
	TrendingCategories []string        `json:"trending_categories"`
	TopProduct         TopProduct      `json:"top_product"`
	AIMarketAnalysis   *AnalysisResult `json:"ai_market_analysis"`
}

// DailyReport is the sole unit of persistence: one run, one report file.
// Products keep scrape order.
type DailyReport struct {
	Date          string            `json:"date"`
	MarketSummary MarketSummary     `json:"market_summary"`
	Products      []EnrichedProduct `json:"products"`
}

// TrendingCategories ranks categories by launch count, breaking ties by
// total votes descending and then by name ascending. Products without a
// category are ignored.
func TrendingCategories(products []Product) []string {
	counts := make(map[string]int)
	votes := make(map[string]int)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		counts[p.Category]++
		votes[p.Category] += p.Votes
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		if votes[a] != votes[b] {
			return votes[a] > votes[b]
		}
		return a < b
	})

	if len(names) > trendingLimit {
		names = names[:trendingLimit]
	}
	return names
}

// TopVoted returns the first product with the highest vote count. Scrape
// order breaks ties.
func TopVoted(products []Product) TopProduct {
	var top TopProduct
	best := -1
	for _, p := range products {
		if p.Votes > best {
			best = p.Votes
			top = TopProduct{Name: p.Name, Votes: p.Votes, Category: p.Category}
		}
	}
	return top
}
