package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/calendar"
	"github.com/2beens/gymlog/internal/workouts"
)

func printDay(out io.Writer, date string, day workouts.WorkoutDay) {
	header := date
	if day.PB {
		header += "  [PB]"
	}
	_, _ = fmt.Fprintln(out, header)
	for i, e := range day.Entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = "(untitled)"
		}
		_, _ = fmt.Fprintf(out, "  %d. %s", i+1, title)
		if e.Media != nil {
			_, _ = fmt.Fprintf(out, "  <%s>", e.Media.Kind)
		}
		_, _ = fmt.Fprintln(out)
		for _, line := range strings.Split(strings.TrimSpace(e.Notes), "\n") {
			if line == "" {
				continue
			}
			_, _ = fmt.Fprintf(out, "     %s\n", line)
		}
	}
	if day.Image != nil {
		_, _ = fmt.Fprintf(out, "  photo: %s\n", day.Image.Path)
	}
}

func printStats(out io.Writer, stats workouts.Stats) {
	_, _ = fmt.Fprintf(out, "current streak: %d\n", stats.CurrentStreak)
	_, _ = fmt.Fprintf(out, "best streak:    %d\n", stats.BestStreak)
	_, _ = fmt.Fprintf(out, "total days:     %d\n", stats.TotalDays)
	if stats.LastWorkout != "" {
		_, _ = fmt.Fprintf(out, "last workout:   %s\n", stats.LastWorkout)
	}
}

// cellText is four columns wide: the day number and one marker.
//
//	"12* " full day   "12. " notes only   "[12]" today   "12! " pb
func cellText(dv *calendar.DayView) string {
	if dv == nil {
		return "    "
	}
	if dv.Markers.Today {
		return fmt.Sprintf("[%2d]", dv.Day)
	}
	marker := " "
	switch {
	case dv.Markers.PB:
		marker = "!"
	case dv.Markers.Fill == calendar.FillFull:
		marker = "*"
	case dv.Markers.Fill == calendar.FillHalf:
		marker = "."
	}
	return fmt.Sprintf("%2d%s ", dv.Day, marker)
}

func printCalendar(out io.Writer, view calendar.View) {
	title := fmt.Sprintf("%s %d", time.Month(view.Month), view.Year)
	_, _ = fmt.Fprintf(out, "%s\n", title)

	for _, wd := range view.Weekdays {
		_, _ = fmt.Fprintf(out, "%-4s", wd)
	}
	_, _ = fmt.Fprintln(out)

	for i, cell := range view.Cells {
		_, _ = fmt.Fprint(out, cellText(cell))
		if (i+1)%7 == 0 {
			_, _ = fmt.Fprintln(out)
		}
	}
	if len(view.Cells)%7 != 0 {
		_, _ = fmt.Fprintln(out)
	}

	for _, dv := range view.Stacked {
		if len(dv.Entries) == 0 {
			continue
		}
		_, _ = fmt.Fprintln(out)
		printDay(out, fmt.Sprintf("%s %s", dv.Weekday, dv.Key), workouts.WorkoutDay{
			Entries: dv.Entries,
			PB:      dv.Markers.PB,
		})
	}
}
