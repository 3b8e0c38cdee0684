package world

import "time"

// Clock measures real elapsed time since world creation.
type Clock struct {
	CreatedAt time.Time
}

func NewClock(createdAt time.Time) Clock {
	if createdAt.IsZero() {
		createdAt = time.Unix(0, 0)
	}
	return Clock{CreatedAt: createdAt}
}

// HoursAt returns whole hours elapsed since creation, never negative.
func (c Clock) HoursAt(now time.Time) int64 {
	elapsed := now.Sub(c.CreatedAt)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / time.Hour)
}
