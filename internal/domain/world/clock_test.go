package world

import (
	"testing"
	"time"
)

func TestClockHoursAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	if got := clock.HoursAt(start); got != 0 {
		t.Fatalf("expected 0 hours at start, got %d", got)
	}
	if got := clock.HoursAt(start.Add(59 * time.Minute)); got != 0 {
		t.Fatalf("expected 0 hours before first boundary, got %d", got)
	}
	if got := clock.HoursAt(start.Add(3*time.Hour + 10*time.Minute)); got != 3 {
		t.Fatalf("expected 3 hours, got %d", got)
	}
	if got := clock.HoursAt(start.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected clamp to 0 before creation, got %d", got)
	}
}
