package eia

import (
	"testing"
	"time"

	"SteelPulse/internal/domain/models"
)

const gridPage = `<html><body>
<table><tr><td>navigation junk</td></tr></table>
<table class="FloatTitle">
  <tr>
    <th>Year-Month</th>
    <th>End Date</th><th>Value</th>
    <th>End Date</th><th>Value</th>
    <th>End Date</th><th>Value</th>
  </tr>
  <tr>
    <td>2023-Jan</td>
    <td>01/06/2023</td><td>12,200</td>
    <td>01/13/2023</td><td>12,300</td>
    <td>01/20/2023</td><td>12,300</td>
  </tr>
  <tr>
    <td>2023-Feb</td>
    <td>02/03/2023</td><td>12,300</td>
    <td>02/10/2023</td><td></td>
    <td>02/17/2023</td><td>12,300</td>
  </tr>
</table>
</body></html>`

func TestParseGrid(t *testing.T) {
	pts, err := ParseGrid([]byte(gridPage))
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}

	// 6 cells, one blank value dropped
	if len(pts) != 5 {
		t.Fatalf("ParseGrid() len = %d, want 5", len(pts))
	}

	want := time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC)
	if !pts[0].Date.Equal(want) {
		t.Errorf("first date = %v, want %v", pts[0].Date, want)
	}
	if pts[0].Value != 12200 {
		t.Errorf("first value = %v, want 12200", pts[0].Value)
	}

	for i := 1; i < len(pts); i++ {
		if pts[i].Date.Before(pts[i-1].Date) {
			t.Fatalf("points not sorted at index %d", i)
		}
	}
}

func TestParseGridDeduplicates(t *testing.T) {
	page := `<table>
	  <tr><th>Year-Month</th><th>End Date</th><th>Value</th></tr>
	  <tr><td>2023-Jan</td><td>01/06/2023</td><td>100</td></tr>
	  <tr><td>2023-Jan</td><td>01/06/2023</td><td>999</td></tr>
	</table>`

	pts, err := ParseGrid([]byte(page))
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("ParseGrid() len = %d, want 1", len(pts))
	}
	if pts[0].Value != 100 {
		t.Errorf("kept value = %v, want first occurrence 100", pts[0].Value)
	}
}

func TestParseGridNoTable(t *testing.T) {
	if _, err := ParseGrid([]byte(`<html><body><p>maintenance</p></body></html>`)); err == nil {
		t.Fatal("ParseGrid() expected error for page without grid")
	}
}

func TestToMillionBblPerDay(t *testing.T) {
	in := []models.TimePoint{
		{Date: time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC), Value: 12200},
	}
	out := ToMillionBblPerDay(in)
	if out[0].Value != 12.2 {
		t.Errorf("converted value = %v, want 12.2", out[0].Value)
	}
	if in[0].Value != 12200 {
		t.Errorf("input mutated: %v", in[0].Value)
	}
}
