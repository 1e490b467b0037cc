package workouts

import (
	"github.com/2beens/gymlog/internal/datekey"
)

type Stats struct {
	CurrentStreak int    `json:"currentStreak"`
	BestStreak    int    `json:"bestStreak"`
	TotalDays     int    `json:"totalDays"`
	LastWorkout   string `json:"lastWorkout,omitempty"`
}

// ActiveDays returns sorted keys of days with a non-blank title or notes.
func ActiveDays(m WorkoutMap) []string {
	var active []string
	for _, k := range m.SortedKeys() {
		if m[k].HasContent() {
			active = append(active, k)
		}
	}
	return active
}

// ComputeStreaks walks the active days in order. Day gaps are computed on
// UTC midnights of the keys. The current streak is the trailing run, as long
// as its last day is today or yesterday.
func ComputeStreaks(m WorkoutMap, today string) Stats {
	active := ActiveDays(m)
	stats := Stats{TotalDays: len(active)}
	if len(active) == 0 {
		return stats
	}

	run := 1
	stats.BestStreak = 1
	for i := 1; i < len(active); i++ {
		gap, err := datekey.DaysBetween(active[i-1], active[i])
		if err == nil && gap == 1 {
			run++
		} else {
			run = 1
		}
		stats.BestStreak = max(stats.BestStreak, run)
	}

	stats.LastWorkout = active[len(active)-1]
	sinceLast, err := datekey.DaysBetween(stats.LastWorkout, today)
	if err == nil && (sinceLast == 0 || sinceLast == 1) {
		stats.CurrentStreak = run
	}

	return stats
}
