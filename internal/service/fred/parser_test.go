package fred

import (
	"testing"
	"time"
)

func TestParseCSV(t *testing.T) {
	data := []byte("DATE,DFEDTARU\n" +
		"2022-03-15,0.25\n" +
		"2022-03-16,0.50\n" +
		"2022-03-17,.\n" +
		"2022-03-18,0.50\n")

	pts, err := ParseCSV(data, time.Time{})
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(pts) != 3 {
		t.Fatalf("ParseCSV() len = %d, want 3", len(pts))
	}
	if pts[1].Value != 0.5 {
		t.Errorf("pts[1].Value = %v, want 0.5", pts[1].Value)
	}
	want := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	if !pts[0].Date.Equal(want) {
		t.Errorf("pts[0].Date = %v, want %v", pts[0].Date, want)
	}
}

func TestParseCSVSinceFilter(t *testing.T) {
	data := []byte("DATE,DFEDTARU\n2022-03-15,0.25\n2022-03-16,0.50\n")

	pts, err := ParseCSV(data, time.Date(2022, 3, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("ParseCSV() len = %d, want 1", len(pts))
	}
	if pts[0].Value != 0.5 {
		t.Errorf("pts[0].Value = %v, want 0.5", pts[0].Value)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV([]byte("DATE,DFEDTARU\n"), time.Time{}); err == nil {
		t.Fatal("ParseCSV() expected error for header-only csv")
	}
}
