package calendar

import (
	"time"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/workouts"
)

type ViewParams struct {
	Month     time.Time
	WeekStart string
	Scope     string
	Selected  *time.Time
	// Today must be derived from the wall clock for every render.
	Today time.Time
}

type DayView struct {
	Key     string                  `json:"key"`
	Day     int                     `json:"day"`
	Weekday string                  `json:"weekday"`
	Markers Markers                 `json:"markers"`
	Entries []workouts.WorkoutEntry `json:"entries,omitempty"`
}

type View struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	WeekStart string     `json:"weekStart"`
	Scope     string     `json:"scope"`
	Today     string     `json:"today"`
	Selected  string     `json:"selected,omitempty"`
	Weekdays  []string   `json:"weekdays"`
	Cells     []*DayView `json:"cells"`
	Stacked   []DayView  `json:"stacked"`
}

func BuildView(m workouts.WorkoutMap, params ViewParams) View {
	if !workouts.ValidWeekStart(params.WeekStart) {
		params.WeekStart = workouts.WeekStartSunday
	}
	if params.Scope != ScopeWeek {
		params.Scope = ScopeMonth
	}

	todayKey := datekey.Key(params.Today)
	selectedKey := ""
	if params.Selected != nil {
		selectedKey = datekey.Key(*params.Selected)
	}

	grid := MonthGrid(params.Month, params.WeekStart)
	view := View{
		Year:      grid.Year,
		Month:     int(grid.Month),
		WeekStart: params.WeekStart,
		Scope:     params.Scope,
		Today:     todayKey,
		Selected:  selectedKey,
		Weekdays:  WeekdayHeaders(params.WeekStart),
		Cells:     make([]*DayView, len(grid.Cells)),
	}

	dayView := func(d time.Time, withEntries bool) DayView {
		key := datekey.Key(d)
		dv := DayView{
			Key:     key,
			Day:     d.Day(),
			Weekday: d.Weekday().String()[:3],
			Markers: Annotate(key, m, todayKey, selectedKey),
		}
		if withEntries {
			dv.Entries = m[key].Entries
		}
		return dv
	}

	for i, c := range grid.Cells {
		if c == nil {
			continue
		}
		dv := dayView(*c, false)
		view.Cells[i] = &dv
	}

	stacked := Stacked(params.Month, params.Scope, params.Selected, params.Today, params.WeekStart)
	view.Stacked = make([]DayView, 0, len(stacked))
	for _, d := range stacked {
		view.Stacked = append(view.Stacked, dayView(d, true))
	}

	return view
}
