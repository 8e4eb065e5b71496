// Package ai drives the analysis-enrichment calls against the Anthropic
// Messages API: the HTTP client with failure classification, the rate and
// cost governor owning the run's cost ledger, the bounded retry policy and
// the response parser that validates model output against the mode's
// schema. All blocking points (network call, spacing wait, backoff sleep)
// honour context cancellation.
package ai
