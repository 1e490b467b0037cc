package workouts

import (
	"fmt"

	"github.com/2beens/gymlog/internal/datekey"
)

// PruneDay drops invalid media and empty entries, caps the day at
// MaxEntriesPerDay and reassigns contiguous ids w1..wN.
func PruneDay(d WorkoutDay) WorkoutDay {
	out := d.Clone()
	entries := out.Entries
	out.Entries = make([]WorkoutEntry, 0, MaxEntriesPerDay)
	for _, e := range entries {
		if e.Media != nil && !e.Media.valid() {
			e.Media = nil
		}
		if IsEmptyEntry(e) {
			continue
		}
		if len(out.Entries) == MaxEntriesPerDay {
			break
		}
		out.Entries = append(out.Entries, e)
	}
	reassignIDs(out.Entries)
	return out
}

func reassignIDs(entries []WorkoutEntry) {
	for i := range entries {
		entries[i].ID = EntryID(i)
	}
}

// putDay stores d under key in a copy of m, or removes the key when d is empty.
func putDay(m WorkoutMap, key string, d WorkoutDay) WorkoutMap {
	out := Clone(m)
	if IsEmptyDay(d) {
		delete(out, key)
		return out
	}
	out[key] = d
	return out
}

// SaveDay applies an editor save. The day's legacy image is kept, entries
// are pruned, and an empty day removes its key. m is not modified.
func SaveDay(m WorkoutMap, key string, entries []WorkoutEntry, pb bool) (WorkoutMap, error) {
	if !datekey.Valid(key) {
		return nil, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, key)
	}

	day := WorkoutDay{Entries: entries, PB: pb}
	if existing, ok := m[key]; ok && existing.Image != nil {
		img := *existing.Image
		day.Image = &img
	}
	return putDay(m, key, PruneDay(day)), nil
}

// ClearDay removes the whole day and returns what was stored.
func ClearDay(m WorkoutMap, key string) (WorkoutMap, WorkoutDay, bool) {
	day, ok := m[key]
	if !ok {
		return Clone(m), WorkoutDay{}, false
	}
	out := Clone(m)
	delete(out, key)
	return out, day.Clone(), true
}

func TogglePB(m WorkoutMap, key string) (WorkoutMap, bool, error) {
	if !datekey.Valid(key) {
		return nil, false, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, key)
	}
	day := m[key].Clone()
	if day.Entries == nil {
		day.Entries = []WorkoutEntry{}
	}
	day.PB = !day.PB
	return putDay(m, key, day), day.PB, nil
}

// SetEntryMedia attaches media to an existing entry. Attaching to the next
// free slot id creates a media-only entry there.
func SetEntryMedia(m WorkoutMap, key, entryID string, media Media) (WorkoutMap, *Media, error) {
	if !datekey.Valid(key) {
		return nil, nil, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, key)
	}
	if !media.Kind.Valid() || IsBlank(media.Path) {
		return nil, nil, ErrInvalidMedia
	}

	day := m[key].Clone()
	if day.Entries == nil {
		day.Entries = []WorkoutEntry{}
	}

	var replaced *Media
	idx, ok := day.Entry(entryID)
	switch {
	case ok:
		replaced = day.Entries[idx].Media
		day.Entries[idx].Media = media.clone()
	case len(day.Entries) >= MaxEntriesPerDay:
		return nil, nil, ErrDayFull
	case entryID == EntryID(len(day.Entries)):
		day.Entries = append(day.Entries, WorkoutEntry{ID: entryID, Media: media.clone()})
	default:
		return nil, nil, ErrEntryNotFound
	}

	return putDay(m, key, day), replaced, nil
}

// RemoveEntryMedia detaches media from an entry and returns it, so the
// caller can clean the stored object up. An entry left empty is pruned.
func RemoveEntryMedia(m WorkoutMap, key, entryID string) (WorkoutMap, *Media, error) {
	day, ok := m[key]
	if !ok {
		return nil, nil, ErrDayNotFound
	}
	day = day.Clone()
	idx, ok := day.Entry(entryID)
	if !ok {
		return nil, nil, ErrEntryNotFound
	}

	removed := day.Entries[idx].Media
	day.Entries[idx].Media = nil
	if IsEmptyEntry(day.Entries[idx]) {
		day = PruneDay(day)
	}
	return putDay(m, key, day), removed, nil
}

func RemoveLegacyImage(m WorkoutMap, key string) (WorkoutMap, *LegacyImage, error) {
	day, ok := m[key]
	if !ok {
		return nil, nil, ErrDayNotFound
	}
	day = day.Clone()
	removed := day.Image
	day.Image = nil
	return putDay(m, key, day), removed, nil
}

// MoveEntry moves the entry at position from to position to (both 0-based)
// and reassigns ids to match the new slot order.
func MoveEntry(m WorkoutMap, key string, from, to int) (WorkoutMap, error) {
	day, ok := m[key]
	if !ok {
		return nil, ErrDayNotFound
	}
	n := len(day.Entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, ErrInvalidPosition
	}

	day = day.Clone()
	moved := day.Entries[from]
	entries := append(day.Entries[:from:from], day.Entries[from+1:]...)
	entries = append(entries[:to], append([]WorkoutEntry{moved}, entries[to:]...)...)
	reassignIDs(entries)
	day.Entries = entries
	return putDay(m, key, day), nil
}

// DeleteEntry removes one entry, closing the gap in ids.
func DeleteEntry(m WorkoutMap, key, entryID string) (WorkoutMap, *WorkoutEntry, error) {
	day, ok := m[key]
	if !ok {
		return nil, nil, ErrDayNotFound
	}
	day = day.Clone()
	idx, ok := day.Entry(entryID)
	if !ok {
		return nil, nil, ErrEntryNotFound
	}

	removed := day.Entries[idx]
	day.Entries = append(day.Entries[:idx], day.Entries[idx+1:]...)
	reassignIDs(day.Entries)
	return putDay(m, key, day), &removed, nil
}

// UpdateEntryNotes replaces the notes of one entry, used by the structured
// block operations. The day is pruned afterwards.
func UpdateEntryNotes(m WorkoutMap, key, entryID string, update func(notes string) string) (WorkoutMap, error) {
	day, ok := m[key]
	if !ok {
		return nil, ErrDayNotFound
	}
	day = day.Clone()
	idx, ok := day.Entry(entryID)
	if !ok {
		return nil, ErrEntryNotFound
	}
	day.Entries[idx].Notes = update(day.Entries[idx].Notes)
	return putDay(m, key, PruneDay(day)), nil
}

// PlaceEntry returns the day's entries with title and notes put into the
// given 1-based slot, or after the last entry when slot is 0. Media of a
// replaced entry is kept. d is not modified.
func PlaceEntry(d WorkoutDay, slot int, title, notes string) ([]WorkoutEntry, error) {
	entries := d.Clone().Entries
	switch {
	case slot == 0:
		if len(entries) >= MaxEntriesPerDay {
			return nil, ErrDayFull
		}
		return append(entries, WorkoutEntry{Title: title, Notes: notes}), nil
	case slot < 1 || slot > MaxEntriesPerDay:
		return nil, ErrInvalidPosition
	case slot <= len(entries):
		entries[slot-1].Title = title
		entries[slot-1].Notes = notes
		return entries, nil
	case slot == len(entries)+1:
		return append(entries, WorkoutEntry{Title: title, Notes: notes}), nil
	default:
		return nil, ErrInvalidPosition
	}
}
