package annotate

import (
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
)

func ev(y int, m time.Month, day int, label string, src models.EventSource) models.Event {
	return models.Event{Date: d(y, m, day), Label: label, Category: models.CategoryOther, Source: src}
}

func TestMergeAndFilterTiePreservesManualFirst(t *testing.T) {
	manual := []models.Event{ev(2022, 3, 1, "A", models.SourceManual)}
	derived := []models.Event{ev(2022, 3, 1, "B", models.SourceDerived)}

	got := MergeAndFilter(manual, derived, d(2022, 1, 1), d(2022, 12, 31))
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Label != "A" || got[1].Label != "B" {
		t.Fatalf("manual must precede derived on equal dates, got %q then %q", got[0].Label, got[1].Label)
	}
}

func TestMergeAndFilterRange(t *testing.T) {
	manual := []models.Event{
		ev(2021, 12, 31, "before", models.SourceManual),
		ev(2022, 1, 1, "start", models.SourceManual),
		ev(2022, 6, 15, "mid", models.SourceManual),
		ev(2022, 12, 31, "end", models.SourceManual),
		ev(2023, 1, 1, "after", models.SourceManual),
	}
	got := MergeAndFilter(manual, nil, d(2022, 1, 1), d(2022, 12, 31))
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for _, e := range got {
		if e.Label == "before" || e.Label == "after" {
			t.Fatalf("out-of-range event %q must be excluded", e.Label)
		}
	}
	// boundaries are inclusive
	if got[0].Label != "start" || got[2].Label != "end" {
		t.Fatalf("boundary events missing: %+v", got)
	}
}

func TestMergeAndFilterSortsAscending(t *testing.T) {
	manual := []models.Event{
		ev(2022, 9, 1, "c", models.SourceManual),
		ev(2022, 2, 1, "a", models.SourceManual),
	}
	derived := []models.Event{ev(2022, 5, 1, "b", models.SourceDerived)}

	got := MergeAndFilter(manual, derived, d(2022, 1, 1), d(2022, 12, 31))
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("output not sorted ascending: %+v", got)
		}
	}
}

func TestMergeAndFilterIdempotent(t *testing.T) {
	manual := []models.Event{
		ev(2022, 9, 1, "c", models.SourceManual),
		ev(2022, 2, 1, "a", models.SourceManual),
	}
	derived := []models.Event{
		ev(2022, 2, 1, "b", models.SourceDerived),
	}
	start, end := d(2022, 1, 1), d(2022, 12, 31)

	once := MergeAndFilter(manual, derived, start, end)
	twice := MergeAndFilter(once, nil, start, end)

	if len(once) != len(twice) {
		t.Fatalf("length changed on re-apply: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("element %d changed on re-apply: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMergeAndFilterEmptyInputs(t *testing.T) {
	got := MergeAndFilter(nil, nil, d(2022, 1, 1), d(2022, 12, 31))
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}
