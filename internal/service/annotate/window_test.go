package annotate

import (
	"errors"
	"testing"

	"SteelPulse/internal/domain/models"
)

func TestWindowZeroRadius(t *testing.T) {
	series := []models.TimePoint{
		tp(2021, 6, 14, 1),
		tp(2021, 6, 15, 2),
		tp(2021, 6, 16, 3),
	}
	got, err := Window(series, d(2021, 6, 15), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Date.Equal(d(2021, 6, 15)) {
		t.Fatalf("expected only the center point, got %+v", got)
	}
}

func TestWindowRadiusBounds(t *testing.T) {
	series := []models.TimePoint{
		tp(2021, 5, 15, 1), // one day outside
		tp(2021, 5, 16, 2), // lower bound
		tp(2021, 6, 15, 3),
		tp(2021, 7, 15, 4), // upper bound
		tp(2021, 7, 16, 5), // one day outside
	}
	got, err := Window(series, d(2021, 6, 15), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 points in 2021-05-16..2021-07-15, got %d", len(got))
	}
	if !got[0].Date.Equal(d(2021, 5, 16)) || !got[2].Date.Equal(d(2021, 7, 15)) {
		t.Fatalf("bounds not inclusive: %+v", got)
	}
}

func TestWindowEmptyResult(t *testing.T) {
	series := []models.TimePoint{tp(2020, 1, 1, 1)}
	got, err := Window(series, d(2021, 6, 15), 30)
	if err != nil {
		t.Fatalf("empty window must not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty window, got %+v", got)
	}
}

func TestWindowNegativeRadius(t *testing.T) {
	_, err := Window(nil, d(2021, 6, 15), -1)
	if !errors.Is(err, ErrNegativeRadius) {
		t.Fatalf("expected ErrNegativeRadius, got %v", err)
	}
}
