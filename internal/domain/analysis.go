package domain

import (
	"encoding/json"
	"time"
)

// AnalysisStatus tags an AnalysisResult as fully validated or terminally
// unavailable. There is no partial success.
type AnalysisStatus string

const (
	StatusSuccess     AnalysisStatus = "success"
	StatusUnavailable AnalysisStatus = "unavailable"
)

// Reason explains why an analysis is unavailable.
type Reason string

const (
	ReasonDisabled          Reason = "disabled"
	ReasonBudgetExceeded    Reason = "budget-exceeded"
	ReasonExhaustedRetries  Reason = "exhausted-retries"
	ReasonMalformedResponse Reason = "malformed-response"
	ReasonRequestFailed     Reason = "request-failed"
)

// AnalysisResult is the outcome of one AI analysis call. On success Data
// holds the validated mode-specific payload; otherwise Reason carries the
// failure code and Data is empty.
type AnalysisResult struct {
	Status      AnalysisStatus  `json:"status"`
	Reason      Reason          `json:"reason,omitempty"`
	Mode        Mode            `json:"mode,omitempty"`
	Confidence  float64         `json:"confidence,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	GeneratedAt time.Time       `json:"generated_at,omitempty"`
}

// Unavailable builds a terminal non-success result.
func Unavailable(reason Reason) *AnalysisResult {
	return &AnalysisResult{Status: StatusUnavailable, Reason: reason}
}

// Available reports whether the result carries a validated payload.
func (r *AnalysisResult) Available() bool {
	return r != nil && r.Status == StatusSuccess
}
