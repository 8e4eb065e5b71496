package domain

import (
	"errors"
	"strings"
)

// Mode selects the analysis depth. It determines the prompt, the expected
// response schema and the token budget for each AI call.
type Mode string

const (
	ModeQuick       Mode = "quick"
	ModeDetailed    Mode = "detailed"
	ModeMarketFocus Mode = "market-focus"
)

// ParseMode normalizes and validates a mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeQuick:
		return ModeQuick, nil
	case ModeDetailed:
		return ModeDetailed, nil
	case ModeMarketFocus:
		return ModeMarketFocus, nil
	default:
		return "", errors.New("analysis mode must be one of: quick, detailed, market-focus")
	}
}
