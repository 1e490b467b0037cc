package calendar

import (
	"github.com/2beens/gymlog/internal/workouts"
)

const (
	FillFull = "full"
	FillHalf = "half"
)

type Markers struct {
	Fill     string `json:"fill,omitempty"`
	Photo    bool   `json:"photo,omitempty"`
	Video    bool   `json:"video,omitempty"`
	PB       bool   `json:"pb,omitempty"`
	Today    bool   `json:"today,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// Annotate derives the markers of the day under key. A missing day and a
// day without entries look the same.
func Annotate(key string, m workouts.WorkoutMap, todayKey, selectedKey string) Markers {
	markers := Markers{
		Today:    key == todayKey,
		Selected: selectedKey != "" && key == selectedKey,
	}

	day, ok := m[key]
	if !ok {
		return markers
	}

	markers.PB = day.PB
	markers.Photo = day.Image != nil

	hasTitle, hasNotes := false, false
	for i, e := range day.Entries {
		if i == workouts.MaxEntriesPerDay {
			break
		}
		if !workouts.IsBlank(e.Title) {
			hasTitle = true
		} else if !workouts.IsBlank(e.Notes) {
			hasNotes = true
		}
		if e.Media != nil {
			switch e.Media.Kind {
			case workouts.MediaImage:
				markers.Photo = true
			case workouts.MediaVideo:
				markers.Video = true
			}
		}
	}

	switch {
	case hasTitle:
		markers.Fill = FillFull
	case hasNotes:
		markers.Fill = FillHalf
	}
	return markers
}
