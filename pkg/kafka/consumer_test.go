package kafka

import (
	"testing"
	"time"
)

func TestBackoffWithJitterBounds(t *testing.T) {
	min := 50 * time.Millisecond
	max := 2 * time.Second
	for attempt := 1; attempt <= 10; attempt++ {
		d := backoffWithJitter(min, max, attempt)
		if d <= 0 || d > max {
			t.Fatalf("attempt %d: backoff %v out of (0, %v]", attempt, d, max)
		}
	}
	// degenerate configs fall back to sane bounds
	if d := backoffWithJitter(0, 0, 1); d <= 0 {
		t.Fatalf("zero config: backoff %v", d)
	}
}
