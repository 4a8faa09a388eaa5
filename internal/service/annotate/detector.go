// Package annotate implements the event-aligned series annotation core:
// change detection over a reference level series, merging and range-filtering
// of manual and derived events, and sub-window extraction around an event.
// All functions are pure transforms over in-memory series; fetch, caching,
// and persistence live elsewhere.
package annotate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SteelPulse/internal/domain/models"
)

var (
	// ErrUnsortedReference is returned when the reference series is not in
	// ascending timestamp order. The detector depends on ordering and never
	// re-sorts the input.
	ErrUnsortedReference = errors.New("annotate: reference series not sorted ascending")

	// ErrNegativeRadius is returned for a negative window radius.
	ErrNegativeRadius = errors.New("annotate: radius_days must be >= 0")
)

// DetectChanges scans a reference level series for value transitions and
// returns one derived event per maximal run of a constant value, dated at
// the run's first timestamp. The first in-range observation always yields
// an event ("value set to X"); later runs report direction relative to the
// value immediately before the run. Values compare with exact equality.
//
// Points before since are dropped first, so a transition exactly at since
// is reported as "value set to X" when no earlier point survives the filter.
// An empty series after filtering yields an empty result, not an error.
func DetectChanges(reference []models.TimePoint, since time.Time) ([]models.Event, error) {
	if !models.IsSorted(reference) {
		return nil, ErrUnsortedReference
	}

	filtered := reference[:0:0]
	for _, p := range reference {
		if !p.Date.Before(since) {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return []models.Event{}, nil
	}

	events := make([]models.Event, 0, 4)
	for i, p := range filtered {
		if i > 0 && p.Value == filtered[i-1].Value {
			continue
		}
		var label string
		switch {
		case i == 0:
			label = fmt.Sprintf("value set to %s", formatLevel(p.Value))
		case p.Value > filtered[i-1].Value:
			label = fmt.Sprintf("value ↑ to %s", formatLevel(p.Value))
		default:
			label = fmt.Sprintf("value ↓ to %s", formatLevel(p.Value))
		}
		events = append(events, models.Event{
			Date:      p.Date,
			Label:     label,
			Category:  models.CategoryMonetaryPolicy,
			Rationale: "reference series level change",
			Source:    models.SourceDerived,
		})
	}
	return events, nil
}

// formatLevel renders a level value the way the source reports it, keeping
// at least one decimal so "set to 1.0" reads as a level, not a count.
func formatLevel(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
