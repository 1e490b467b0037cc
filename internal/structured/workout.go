package structured

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Row struct {
	Name   string `json:"name"`
	Sets   string `json:"sets,omitempty"`
	Reps   string `json:"reps,omitempty"`
	Weight string `json:"weight,omitempty"`
	Time   string `json:"time,omitempty"`
	Note   string `json:"note,omitempty"`
}

func (r Row) IsEmpty() bool {
	for _, f := range []string{r.Name, r.Sets, r.Reps, r.Weight, r.Time, r.Note} {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts numbers where strings are expected, older
// payloads stored sets/reps/weight as JSON numbers.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = rowFromMap(raw)
	return nil
}

type Workout struct {
	WorkoutName  string `json:"workoutName"`
	Time         string `json:"time,omitempty"`
	SessionNotes string `json:"sessionNotes,omitempty"`
	Rows         []Row  `json:"rows"`
}

// NonEmptyRows returns the rows that carry at least one non-blank field.
func (w Workout) NonEmptyRows() []Row {
	rows := make([]Row, 0, len(w.Rows))
	for _, r := range w.Rows {
		if !r.IsEmpty() {
			rows = append(rows, r)
		}
	}
	return rows
}

// FromAny builds a Workout out of a loosely typed decoded JSON value.
// Both "rows" and the older "exercises" list names are accepted.
// Returns nil when v does not look like a structured workout at all.
func FromAny(v any) *Workout {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	w := &Workout{
		WorkoutName:  firstString(m, "workoutName", "name", "title"),
		Time:         firstString(m, "time", "duration"),
		SessionNotes: firstString(m, "sessionNotes", "notes"),
	}

	rawRows, ok := m["rows"].([]any)
	if !ok {
		rawRows, _ = m["exercises"].([]any)
	}
	for _, rr := range rawRows {
		rm, ok := rr.(map[string]any)
		if !ok {
			continue
		}
		w.Rows = append(w.Rows, rowFromMap(rm))
	}

	if w.WorkoutName == "" && w.Time == "" && w.SessionNotes == "" && len(w.NonEmptyRows()) == 0 {
		return nil
	}
	return w
}

func rowFromMap(m map[string]any) Row {
	return Row{
		Name:   firstString(m, "name", "exercise"),
		Sets:   firstString(m, "sets"),
		Reps:   firstString(m, "reps"),
		Weight: firstString(m, "weight"),
		Time:   firstString(m, "time"),
		Note:   firstString(m, "note", "notes"),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s := ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// ToString renders a decoded JSON scalar the way a JS String() call would.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
