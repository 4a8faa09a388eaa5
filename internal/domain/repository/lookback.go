package repository

import "time"

// Lookback represents the supported chart lookback windows.
type Lookback string

const (
	LB6mo Lookback = "6mo"
	LB1y  Lookback = "1y"
	LB2y  Lookback = "2y"
	LB5y  Lookback = "5y"
)

// IsValidLookback returns true if lb is a supported lookback.
func IsValidLookback(lb Lookback) bool {
	switch lb {
	case LB6mo, LB1y, LB2y, LB5y:
		return true
	default:
		return false
	}
}

// DefaultLookback returns the default lookback.
func DefaultLookback() Lookback { return LB1y }

// NormalizeLookback converts raw string to a valid lookback (or default).
func NormalizeLookback(s string) Lookback {
	if s == "" {
		return DefaultLookback()
	}
	lb := Lookback(s)
	if IsValidLookback(lb) {
		return lb
	}
	return DefaultLookback()
}

// Start returns the lookback window start relative to now.
func (lb Lookback) Start(now time.Time) time.Time {
	switch lb {
	case LB6mo:
		return now.AddDate(0, -6, 0)
	case LB1y:
		return now.AddDate(-1, 0, 0)
	case LB2y:
		return now.AddDate(-2, 0, 0)
	case LB5y:
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}
