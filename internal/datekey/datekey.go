// Package datekey converts between dates and the canonical YYYY-MM-DD keys
// used to index workout days. Keys are always derived from the local calendar
// date of a time value, never from its UTC representation.
package datekey

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const Layout = "2006-01-02"

const day = 24 * time.Hour

var ErrInvalidKey = errors.New("invalid date key")

var keyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// StubClock always returns T.
type StubClock struct {
	T time.Time
}

func (c StubClock) Now() time.Time { return c.T }

// Key returns the date key of t in t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Parse returns local midnight of the key's date in loc.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if !keyRegex.MatchString(key) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %s", ErrInvalidKey, key, err)
	}
	return t, nil
}

func Valid(key string) bool {
	_, err := Parse(key, time.UTC)
	return err == nil
}

func Today(clock Clock) string {
	return Key(clock.Now())
}

// AddDays shifts key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return Key(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns b - a in whole days, computed on UTC midnights so
// DST transitions never produce an off-by-one.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a, time.UTC)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b, time.UTC)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta) / day), nil
}

// Date builds local midnight for the given calendar date.
func Date(year int, month time.Month, dayOfMonth int, loc *time.Location) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	return Key(a) == Key(b.In(a.Location()))
}
