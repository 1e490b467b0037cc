// Package calendar lays a month out on a 7 column grid and derives the
// per-day markers shown on it from a WorkoutMap.
package calendar

import (
	"time"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/workouts"
)

const (
	ScopeWeek  = "week"
	ScopeMonth = "month"
)

// Grid cells are nil for blanks before day 1 and after the last day.
type Grid struct {
	Year      int
	Month     time.Month
	WeekStart string
	Leading   int
	Trailing  int
	Days      []time.Time
	Cells     []*time.Time
}

// weekdayIndex is the column of a weekday for the given week start.
func weekdayIndex(wd time.Weekday, weekStart string) int {
	if weekStart == workouts.WeekStartMonday {
		return (int(wd) + 6) % 7
	}
	return int(wd)
}

// MonthDays returns local midnights of every day in month's month.
func MonthDays(month time.Time) []time.Time {
	first := firstOfMonth(month)
	n := first.AddDate(0, 1, -1).Day()
	days := make([]time.Time, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, datekey.Date(first.Year(), first.Month(), d, first.Location()))
	}
	return days
}

func firstOfMonth(t time.Time) time.Time {
	return datekey.Date(t.Year(), t.Month(), 1, t.Location())
}

// MonthGrid builds the grid for the month containing month.
func MonthGrid(month time.Time, weekStart string) Grid {
	days := MonthDays(month)
	leading := weekdayIndex(days[0].Weekday(), weekStart)
	trailing := (7 - (leading+len(days))%7) % 7

	cells := make([]*time.Time, 0, leading+len(days)+trailing)
	for i := 0; i < leading; i++ {
		cells = append(cells, nil)
	}
	for i := range days {
		cells = append(cells, &days[i])
	}
	for i := 0; i < trailing; i++ {
		cells = append(cells, nil)
	}

	return Grid{
		Year:      days[0].Year(),
		Month:     days[0].Month(),
		WeekStart: weekStart,
		Leading:   leading,
		Trailing:  trailing,
		Days:      days,
		Cells:     cells,
	}
}

// StartOfWeek returns local midnight of the first day of t's week.
func StartOfWeek(t time.Time, weekStart string) time.Time {
	midnight := datekey.Date(t.Year(), t.Month(), t.Day(), t.Location())
	return midnight.AddDate(0, 0, -weekdayIndex(midnight.Weekday(), weekStart))
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WeekAnchor picks the day whose week is shown in week scope: the selected
// day if it is in the displayed month, else today if it is, else the 1st.
func WeekAnchor(month time.Time, selected *time.Time, today time.Time) time.Time {
	if selected != nil && sameMonth(*selected, month) {
		return *selected
	}
	if sameMonth(today, month) {
		return today
	}
	return firstOfMonth(month)
}

// WeekWindow returns the first and last day of the anchored week.
func WeekWindow(month time.Time, selected *time.Time, today time.Time, weekStart string) (time.Time, time.Time) {
	start := StartOfWeek(WeekAnchor(month, selected, today), weekStart)
	return start, start.AddDate(0, 0, 6)
}

// Stacked lists the month days for the list view. Week scope keeps only the
// days inside the week window, so a week crossing a month boundary is cut.
func Stacked(month time.Time, scope string, selected *time.Time, today time.Time, weekStart string) []time.Time {
	days := MonthDays(month)
	if scope != ScopeWeek {
		return days
	}

	start, end := WeekWindow(month, selected, today, weekStart)
	startKey, endKey := datekey.Key(start), datekey.Key(end)
	var inWindow []time.Time
	for _, d := range days {
		k := datekey.Key(d)
		if k >= startKey && k <= endKey {
			inWindow = append(inWindow, d)
		}
	}
	return inWindow
}

// WeekdayHeaders returns short weekday names in column order.
func WeekdayHeaders(weekStart string) []string {
	headers := make([]string, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		headers[weekdayIndex(wd, weekStart)] = wd.String()[:3]
	}
	return headers
}
