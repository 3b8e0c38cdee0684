package survival

import (
	"time"

	"tileworld/internal/domain/world"
)

// ApplyPassiveDecay brings the state up to date with the world clock. The
// target is whole hours since world creation; DecayHours records how many
// of those hours were already applied, so any gap is applied exactly once
// and healing between passes is kept. It returns the hours applied.
func ApplyPassiveDecay(s *PlayerState, clock world.Clock, now time.Time, rates DecayRates) int64 {
	target := clock.HoursAt(now)
	if target <= s.DecayHours {
		return 0
	}
	hours := target - s.DecayHours
	s.Health = clamp(s.Health-int(hours)*rates.HealthPerHour, 0, MaxHealth)
	s.XP += int(hours) * rates.XPPerHour
	s.DecayHours = target
	return hours
}
