package markets

import (
	"math"
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
)

func pt(day int, v float64) models.TimePoint {
	return models.TimePoint{Date: time.Date(2022, 1, day, 0, 0, 0, 0, time.UTC), Value: v}
}

func TestNormalizeTo100(t *testing.T) {
	in := []models.TimePoint{pt(1, 50), pt(2, 75), pt(3, 25)}
	got := NormalizeTo100(in)
	if got[0].Value != 100 || got[1].Value != 150 || got[2].Value != 50 {
		t.Fatalf("unexpected %+v", got)
	}
	// input untouched
	if in[0].Value != 50 {
		t.Fatalf("input mutated")
	}
}

func TestNormalizeTo100Empty(t *testing.T) {
	if got := NormalizeTo100(nil); len(got) != 0 {
		t.Fatalf("expected empty")
	}
}

func TestNormalizeTo100ZeroBase(t *testing.T) {
	in := []models.TimePoint{pt(1, 0), pt(2, 5)}
	got := NormalizeTo100(in)
	if got[1].Value != 5 {
		t.Fatalf("zero base must leave series unchanged, got %+v", got)
	}
}

func TestPctChange(t *testing.T) {
	in := []models.TimePoint{pt(1, 100), pt(2, 110), pt(3, 99)}
	got := PctChange(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	if math.Abs(got[0]-0.10) > 1e-12 || math.Abs(got[1]-(-0.10)) > 1e-12 {
		t.Fatalf("unexpected returns %v", got)
	}
}

func TestRollingCorrelationPerfect(t *testing.T) {
	// b is a scaled copy of a, so returns correlate exactly.
	var a, b models.Series
	a.Name, b.Name = "A", "B"
	vals := []float64{100, 101, 103, 102, 105, 108, 107, 109}
	for i, v := range vals {
		a.Points = append(a.Points, pt(i+1, v))
		b.Points = append(b.Points, pt(i+1, v*2))
	}
	got := RollingCorrelation(a, b, 3)
	if got == nil || len(got.Points) == 0 {
		t.Fatalf("expected correlation series")
	}
	for _, p := range got.Points {
		if math.Abs(p.Value-1.0) > 1e-9 {
			t.Fatalf("expected correlation 1.0, got %v at %v", p.Value, p.Date)
		}
	}
}

func TestRollingCorrelationShortSeries(t *testing.T) {
	a := models.Series{Name: "A", Points: []models.TimePoint{pt(1, 1), pt(2, 2)}}
	b := models.Series{Name: "B", Points: []models.TimePoint{pt(1, 2), pt(2, 4)}}
	if got := RollingCorrelation(a, b, 60); got != nil {
		t.Fatalf("expected nil for short series, got %+v", got)
	}
}
