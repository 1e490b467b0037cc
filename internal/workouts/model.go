package workouts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	MaxEntriesPerDay = 3

	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrDayNotFound     = errors.New("day not found")
	ErrDayFull         = errors.New("day already has the maximum number of entries")
	ErrInvalidPosition = errors.New("invalid entry position")
	ErrInvalidMedia    = errors.New("invalid media")
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// Media is a reference to an object in external storage. Video only fields
// stay nil for images.
type Media struct {
	Kind        MediaKind `json:"kind"`
	Path        string    `json:"path"`
	UpdatedAt   int64     `json:"updatedAt"`
	SizeBytes   *int64    `json:"sizeBytes,omitempty"`
	DurationSec *float64  `json:"durationSec,omitempty"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
}

type WorkoutEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes"`
	Media *Media `json:"media,omitempty"`
}

// LegacyImage is the single per-day photo of older data, superseded by entry media.
type LegacyImage struct {
	Path      string `json:"path"`
	UpdatedAt int64  `json:"updatedAt"`
	SizeBytes *int64 `json:"sizeBytes,omitempty"`
}

type WorkoutDay struct {
	Entries []WorkoutEntry `json:"entries"`
	PB      bool           `json:"pb"`
	Image   *LegacyImage   `json:"image,omitempty"`
}

// WorkoutMap is keyed by YYYY-MM-DD date keys.
type WorkoutMap map[string]WorkoutDay

// SortedKeys returns the date keys in chronological order.
// The key format is fixed width, so lexicographic order is enough.
func (m WorkoutMap) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Settings struct {
	WeekStart string `json:"weekStart"`
}

func DefaultSettings() Settings {
	return Settings{WeekStart: WeekStartSunday}
}

func ValidWeekStart(ws string) bool {
	return ws == WeekStartSunday || ws == WeekStartMonday
}

func EntryID(index int) string {
	return fmt.Sprintf("w%d", index+1)
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmptyEntry reports an entry with no title, no notes and no media.
func IsEmptyEntry(e WorkoutEntry) bool {
	return IsBlank(e.Title) && IsBlank(e.Notes) && e.Media == nil
}

// IsEmptyDay reports a day that must not be stored at all.
func IsEmptyDay(d WorkoutDay) bool {
	return len(d.Entries) == 0 && !d.PB && d.Image == nil
}

// HasContent reports whether any entry has a non-blank title or notes.
func (d WorkoutDay) HasContent() bool {
	for _, e := range d.Entries {
		if !IsBlank(e.Title) || !IsBlank(e.Notes) {
			return true
		}
	}
	return false
}

func (d WorkoutDay) Entry(id string) (int, bool) {
	for i, e := range d.Entries {
		if e.ID == id {
			return i, true
		}
	}
	return -1, false
}

// valid mirrors what the normalizer keeps: a known kind and a path.
func (m *Media) valid() bool {
	return m.Kind.Valid() && !IsBlank(m.Path)
}

func (m *Media) clone() *Media {
	if m == nil {
		return nil
	}
	c := *m
	if m.SizeBytes != nil {
		v := *m.SizeBytes
		c.SizeBytes = &v
	}
	if m.DurationSec != nil {
		v := *m.DurationSec
		c.DurationSec = &v
	}
	if m.Width != nil {
		v := *m.Width
		c.Width = &v
	}
	if m.Height != nil {
		v := *m.Height
		c.Height = &v
	}
	return &c
}

func (d WorkoutDay) Clone() WorkoutDay {
	c := WorkoutDay{PB: d.PB}
	if d.Entries != nil {
		c.Entries = make([]WorkoutEntry, len(d.Entries))
		for i, e := range d.Entries {
			e.Media = e.Media.clone()
			c.Entries[i] = e
		}
	}
	if d.Image != nil {
		img := *d.Image
		if d.Image.SizeBytes != nil {
			v := *d.Image.SizeBytes
			img.SizeBytes = &v
		}
		c.Image = &img
	}
	return c
}

// Clone deep copies the map.
func Clone(m WorkoutMap) WorkoutMap {
	c := make(WorkoutMap, len(m))
	for k, d := range m {
		c[k] = d.Clone()
	}
	return c
}
