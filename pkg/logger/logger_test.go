package logger

import (
	"errors"
	"testing"
	"time"
)

func TestFieldKeyValues(t *testing.T) {
	if k, v := String("sym", "SLX").GetKeyValue(); k != "sym" || v != "SLX" {
		t.Fatalf("String: got %q=%v", k, v)
	}
	if k, v := Int("rows", 7).GetKeyValue(); k != "rows" || v != 7 {
		t.Fatalf("Int: got %q=%v", k, v)
	}
	if k, v := Error(errors.New("boom")).GetKeyValue(); k != "error" || v != "boom" {
		t.Fatalf("Error: got %q=%v", k, v)
	}
}

func TestDurationFieldLogsMilliseconds(t *testing.T) {
	_, v := Duration("elapsed_ms", 1500*time.Millisecond).GetKeyValue()
	if v != 1500 {
		t.Fatalf("Duration: got %v, want 1500", v)
	}
}
