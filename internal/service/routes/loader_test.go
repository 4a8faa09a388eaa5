package routes

import (
	"testing"
)

func TestClean(t *testing.T) {
	raw := []byte("Country;BF-BOF (ttpa);DRI-EAF (ttpa);\n" +
		"China;1,020,000;120000;\n" +
		"India;unknown;45 000;\n" +
		"Global;2,000,000;500000;\n" +
		"Germany;30000;;\n")

	mix, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(mix.Rows) != 3 {
		t.Fatalf("Clean() rows = %d, want 3 (Global dropped)", len(mix.Rows))
	}
	if mix.Unit != "Mtpa" {
		t.Errorf("unit = %q, want Mtpa", mix.Unit)
	}

	// sorted by country
	byCountry := map[string]int{}
	for i, r := range mix.Rows {
		byCountry[r.Country] = i
	}
	for _, c := range []string{"China", "Germany", "India"} {
		if _, ok := byCountry[c]; !ok {
			t.Fatalf("missing row for %s", c)
		}
	}
	if byCountry["China"] > byCountry["Germany"] || byCountry["Germany"] > byCountry["India"] {
		t.Error("rows not sorted by country")
	}

	china := mix.Rows[byCountry["China"]]
	if china.BFBOF == nil || *china.BFBOF != 1020.0 {
		t.Errorf("China BF-BOF = %v, want 1020 Mtpa", china.BFBOF)
	}

	india := mix.Rows[byCountry["India"]]
	if india.BFBOF != nil {
		t.Errorf("India BF-BOF = %v, want nil for unknown", *india.BFBOF)
	}
	if india.DRIEAF == nil || *india.DRIEAF != 45.0 {
		t.Errorf("India DRI-EAF = %v, want 45 Mtpa", india.DRIEAF)
	}

	germany := mix.Rows[byCountry["Germany"]]
	if germany.DRIEAF != nil {
		t.Error("Germany DRI-EAF should be nil for empty cell")
	}

	if mix.TotalBFBOF != 1020.0+30.0 {
		t.Errorf("TotalBFBOF = %v, want 1050 (Global excluded)", mix.TotalBFBOF)
	}
	if mix.TotalDRIEAF != 120.0+45.0 {
		t.Errorf("TotalDRIEAF = %v, want 165", mix.TotalDRIEAF)
	}
}

func TestCleanCommaDelimited(t *testing.T) {
	raw := []byte("Country,BF-BOF (ttpa),DRI-EAF (ttpa)\nBrazil,25000,5000\n")

	mix, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if len(mix.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(mix.Rows))
	}
	if mix.Rows[0].BFBOF == nil || *mix.Rows[0].BFBOF != 25.0 {
		t.Errorf("Brazil BF-BOF = %v, want 25", mix.Rows[0].BFBOF)
	}
}

func TestCleanWindows1252Fallback(t *testing.T) {
	// 0xF4 is "ô" in Windows-1252 and invalid as a standalone UTF-8 byte.
	raw := []byte("Country;BF-BOF (ttpa);DRI-EAF (ttpa)\nC\xf4te d'Ivoire;1000;2000\n")

	mix, err := Clean(raw)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if mix.Rows[0].Country != "Côte d'Ivoire" {
		t.Errorf("country = %q, want decoded Côte d'Ivoire", mix.Rows[0].Country)
	}
}

func TestCleanHeaderMismatch(t *testing.T) {
	if _, err := Clean([]byte("a;b;c\n1;2;3\n")); err == nil {
		t.Fatal("Clean() expected error for unrecognized header")
	}
}
