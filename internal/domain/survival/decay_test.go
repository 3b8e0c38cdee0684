package survival

import (
	"testing"
	"time"

	"tileworld/internal/domain/world"
)

func TestApplyPassiveDecay_ReconstructsGapFromTimestamps(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := world.NewClock(start)
	state := NewPlayerState("p", world.Point{}, 30, 0)
	rates := DecayRates{HealthPerHour: 2, XPPerHour: 5}

	if got := ApplyPassiveDecay(&state, clock, start.Add(30*time.Minute), rates); got != 0 {
		t.Fatalf("expected nothing before first hour, got %d", got)
	}
	if got := ApplyPassiveDecay(&state, clock, start.Add(5*time.Hour+time.Minute), rates); got != 5 {
		t.Fatalf("expected 5 hours applied after gap, got %d", got)
	}
	if state.Health != 90 || state.XP != 25 {
		t.Fatalf("unexpected vitals health=%d xp=%d", state.Health, state.XP)
	}
	if got := ApplyPassiveDecay(&state, clock, start.Add(5*time.Hour+50*time.Minute), rates); got != 0 {
		t.Fatalf("expected no double application within same hour, got %d", got)
	}
}

func TestApplyPassiveDecay_KeepsHealingBetweenPasses(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := world.NewClock(start)
	state := NewPlayerState("p", world.Point{}, 30, 0)
	rates := DecayRates{HealthPerHour: 10}

	ApplyPassiveDecay(&state, clock, start.Add(2*time.Hour), rates)
	state.Health += 15
	ApplyPassiveDecay(&state, clock, start.Add(3*time.Hour), rates)
	if state.Health != 85 {
		t.Fatalf("expected 100-20+15-10=85, got %d", state.Health)
	}
}

func TestApplyPassiveDecay_FloorsAtZero(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	state := NewPlayerState("p", world.Point{}, 30, 0)
	ApplyPassiveDecay(&state, world.NewClock(start), start.Add(500*time.Hour), DecayRates{HealthPerHour: 2})
	if state.Health != 0 {
		t.Fatalf("expected health floored at 0, got %d", state.Health)
	}
}
