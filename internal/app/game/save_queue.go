package game

import (
	"sort"
	"time"
)

type SaveTarget string

const (
	SaveMap      SaveTarget = "map"
	SavePlayer   SaveTarget = "player"
	SaveSettings SaveTarget = "settings"
)

// SaveQueue debounces writes with one deadline per target. Scheduling a
// target again replaces its pending deadline, so a burst of mutations
// collapses into one write once the burst goes quiet.
type SaveQueue struct {
	pending map[SaveTarget]time.Time
}

func NewSaveQueue() *SaveQueue {
	return &SaveQueue{pending: map[SaveTarget]time.Time{}}
}

func (q *SaveQueue) Schedule(target SaveTarget, now time.Time, delay time.Duration) {
	q.pending[target] = now.Add(delay)
}

func (q *SaveQueue) Deadline(target SaveTarget) (time.Time, bool) {
	at, ok := q.pending[target]
	return at, ok
}

func (q *SaveQueue) Len() int { return len(q.pending) }

// Due removes and returns the targets whose deadline is at or before now.
func (q *SaveQueue) Due(now time.Time) []SaveTarget {
	var out []SaveTarget
	for target, at := range q.pending {
		if !at.After(now) {
			out = append(out, target)
			delete(q.pending, target)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Drain removes and returns every pending target.
func (q *SaveQueue) Drain() []SaveTarget {
	out := make([]SaveTarget, 0, len(q.pending))
	for target := range q.pending {
		out = append(out, target)
	}
	q.pending = map[SaveTarget]time.Time{}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
