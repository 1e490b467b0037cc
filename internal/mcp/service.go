package mcp

import (
	"context"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/structured"
	"github.com/2beens/gymlog/internal/workouts"
)

// workoutJournal is the part of the journal service the tools use.
type workoutJournal interface {
	Today() string
	Workouts(ctx context.Context, userID string) (workouts.WorkoutMap, error)
	Day(ctx context.Context, userID, date string) (workouts.WorkoutDay, bool, error)
	SaveDay(ctx context.Context, userID, date string, entries []workouts.WorkoutEntry, pb bool) (workouts.WorkoutDay, error)
	TogglePB(ctx context.Context, userID, date string) (bool, error)
	Structured(ctx context.Context, userID, date, entryID string) (*structured.Workout, error)
	Streaks(ctx context.Context, userID string) (workouts.Stats, error)
}

// DayRecord is a day with its key, as listed by list_workouts.
type DayRecord struct {
	Date string              `json:"date"`
	Day  workouts.WorkoutDay `json:"day"`
}

// daysInRange returns the days with content between from and to, both
// inclusive, oldest first.
func daysInRange(m workouts.WorkoutMap, from, to string) []DayRecord {
	records := []DayRecord{}
	for _, key := range m.SortedKeys() {
		if key < from || key > to {
			continue
		}
		if !m[key].HasContent() {
			continue
		}
		records = append(records, DayRecord{Date: key, Day: m[key]})
	}
	return records
}

func validRange(from, to string) bool {
	return datekey.Valid(from) && datekey.Valid(to) && from <= to
}
