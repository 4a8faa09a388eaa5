package annotate

import (
	"errors"
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func tp(y int, m time.Month, day int, v float64) models.TimePoint {
	return models.TimePoint{Date: d(y, m, day), Value: v}
}

func TestDetectChangesAllDistinct(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 1, 1, 0.25),
		tp(2022, 2, 1, 0.50),
		tp(2022, 3, 1, 1.00),
		tp(2022, 4, 1, 0.75),
	}
	events, err := DetectChanges(ref, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != len(ref) {
		t.Fatalf("expected %d events, got %d", len(ref), len(events))
	}
}

func TestDetectChangesConstantSeries(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 1, 1, 4.5),
		tp(2022, 1, 8, 4.5),
		tp(2022, 1, 15, 4.5),
	}
	events, err := DetectChanges(ref, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Date.Equal(d(2022, 1, 1)) {
		t.Fatalf("expected event at first timestamp, got %v", events[0].Date)
	}
	if events[0].Label != "value set to 4.5" {
		t.Fatalf("unexpected label %q", events[0].Label)
	}
}

func TestDetectChangesLabels(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 1, 1, 0.0),
		tp(2022, 1, 2, 0.0),
		tp(2022, 1, 3, 1.0),
	}
	events, err := DetectChanges(ref, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Label != "value set to 0.0" {
		t.Fatalf("unexpected first label %q", events[0].Label)
	}
	if !events[1].Date.Equal(d(2022, 1, 3)) || events[1].Label != "value ↑ to 1.0" {
		t.Fatalf("unexpected second event %v %q", events[1].Date, events[1].Label)
	}
}

func TestDetectChangesDecrease(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 1, 1, 2.5),
		tp(2022, 1, 2, 2.0),
	}
	events, err := DetectChanges(ref, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[1].Label != "value ↓ to 2.0" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestDetectChangesSinceFilter(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 1, 1, 0.0),
		tp(2022, 1, 10, 1.0),
		tp(2022, 1, 20, 1.0),
	}
	// The prior point falls outside the filter, so the change at Jan 10 is
	// reported as a fresh level, not a transition.
	events, err := DetectChanges(ref, d(2022, 1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Label != "value set to 1.0" {
		t.Fatalf("unexpected label %q", events[0].Label)
	}
}

func TestDetectChangesEmptyAfterFilter(t *testing.T) {
	ref := []models.TimePoint{tp(2022, 1, 1, 1.0)}
	events, err := DetectChanges(ref, d(2023, 1, 1))
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestDetectChangesEmptyInput(t *testing.T) {
	events, err := DetectChanges(nil, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("empty input must not be an error, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestDetectChangesUnsorted(t *testing.T) {
	ref := []models.TimePoint{
		tp(2022, 2, 1, 1.0),
		tp(2022, 1, 1, 2.0),
	}
	_, err := DetectChanges(ref, d(2022, 1, 1))
	if !errors.Is(err, ErrUnsortedReference) {
		t.Fatalf("expected ErrUnsortedReference, got %v", err)
	}
}

func TestDetectChangesExactEquality(t *testing.T) {
	// Runtime float64 addition of 0.1 and 0.2 does not equal 0.3; the
	// detector must not paper over that with an epsilon. The variables
	// force runtime arithmetic — as constants, 0.1+0.2 rounds to the same
	// float64 as 0.3.
	a, b := 0.1, 0.2
	ref := []models.TimePoint{
		tp(2022, 1, 1, 0.3),
		tp(2022, 1, 2, a+b),
	}
	events, err := DetectChanges(ref, d(2022, 1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for distinct stored values, got %d", len(events))
	}
}
