// Package domain defines the data model shared across the recap pipeline:
// scraped products, AI analysis results, enriched products, the market
// summary and the daily report. Everything here is plain data; all types
// are created once per run and treated as immutable after creation.
package domain
