package models

import (
	"fmt"
	"time"
)

// Category classifies an event for rendering. It never affects filtering.
type Category string

const (
	CategoryPolicy         Category = "Policy"
	CategoryGeopolitics    Category = "Geopolitics"
	CategoryMacro          Category = "Macro"
	CategoryMonetaryPolicy Category = "MonetaryPolicy"
	CategoryOther          Category = "Other"
)

// IsValidCategory returns true if c is a supported category.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryPolicy, CategoryGeopolitics, CategoryMacro, CategoryMonetaryPolicy, CategoryOther:
		return true
	default:
		return false
	}
}

// EventSource tells where an event came from. Manual events are user-owned
// and persisted; derived events are recomputed from the reference series on
// every refresh and never stored.
type EventSource string

const (
	SourceManual  EventSource = "manual"
	SourceDerived EventSource = "derived"
)

// Event is a dated annotation drawn on top of the primary series.
// Identity is (Date, Label): no two events with the same date and label
// should coexist after an upsert.
type Event struct {
	Date      time.Time   `json:"date"`
	Label     string      `json:"label"`
	Category  Category    `json:"category"`
	Rationale string      `json:"rationale,omitempty"`
	Source    EventSource `json:"source"`
}

// Key returns the identity key for upsert/dedup purposes.
func (e *Event) Key() string {
	return fmt.Sprintf("%s|%s", e.Date.UTC().Format("2006-01-02"), e.Label)
}

// Validate checks event fields.
func (e *Event) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("event date is required")
	}
	if e.Label == "" {
		return fmt.Errorf("event label is required")
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if !IsValidCategory(e.Category) {
		return fmt.Errorf("unknown category: %s", e.Category)
	}
	return nil
}
