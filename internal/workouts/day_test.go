package workouts

import (
	"encoding/json"
	"testing"

	"github.com/2beens/gymlog/internal/datekey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() WorkoutMap {
	return WorkoutMap{
		"2026-01-01": {
			Entries: []WorkoutEntry{
				{ID: "w1", Title: "Push"},
				{ID: "w2", Title: "Cardio", Media: &Media{Kind: MediaVideo, Path: "u/2026-01-01/w2.mp4", UpdatedAt: 1}},
				{ID: "w3", Notes: "stretch"},
			},
			Image: &LegacyImage{Path: "legacy.jpg", UpdatedAt: 1},
		},
	}
}

func TestSaveDay_PrunesAndReassigns(t *testing.T) {
	m := testMap()
	out, err := SaveDay(m, "2026-01-01", []WorkoutEntry{
		{ID: "w1", Title: "  "},
		{ID: "w2", Title: "Legs"},
		{ID: "w3", Notes: "more"},
	}, true)
	require.NoError(t, err)

	day := out["2026-01-01"]
	assert.Equal(t, []WorkoutEntry{{ID: "w1", Title: "Legs"}, {ID: "w2", Notes: "more"}}, day.Entries)
	assert.True(t, day.PB)
	// legacy image is never dropped by an editor save
	require.NotNil(t, day.Image)
	assert.Equal(t, "legacy.jpg", day.Image.Path)

	// input untouched
	assert.Equal(t, "Push", m["2026-01-01"].Entries[0].Title)
}

func TestSaveDay_EmptyDayRemoved(t *testing.T) {
	m := WorkoutMap{"2026-01-02": {Entries: []WorkoutEntry{{ID: "w1", Title: "x"}}}}
	out, err := SaveDay(m, "2026-01-02", []WorkoutEntry{{}, {Title: " "}, {Notes: "\n"}}, false)
	require.NoError(t, err)
	_, ok := out["2026-01-02"]
	assert.False(t, ok)
	assert.Len(t, m, 1)

	// pb alone keeps the day
	out, err = SaveDay(m, "2026-01-02", nil, true)
	require.NoError(t, err)
	assert.Equal(t, WorkoutDay{Entries: []WorkoutEntry{}, PB: true}, out["2026-01-02"])

	_, err = SaveDay(m, "bogus", nil, true)
	assert.ErrorIs(t, err, datekey.ErrInvalidKey)
}

func TestSaveDay_CapsEntries(t *testing.T) {
	out, err := SaveDay(WorkoutMap{}, "2026-01-03", []WorkoutEntry{
		{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
	}, false)
	require.NoError(t, err)
	require.Len(t, out["2026-01-03"].Entries, MaxEntriesPerDay)
	assert.Equal(t, "w3", out["2026-01-03"].Entries[2].ID)
}

func TestSaveDay_InvalidMediaIsNotContent(t *testing.T) {
	out, err := SaveDay(WorkoutMap{}, "2026-01-04", []WorkoutEntry{
		{Media: &Media{}},
		{Media: &Media{Kind: MediaImage, Path: "  "}},
		{Media: &Media{Kind: "audio", Path: "u/2026-01-04/w3.mp3"}},
	}, false)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = SaveDay(WorkoutMap{}, "2026-01-04", []WorkoutEntry{
		{Title: "Row", Media: &Media{}},
		{Media: &Media{Kind: MediaImage, Path: "u/2026-01-04/w2.jpg"}},
	}, false)
	require.NoError(t, err)
	day := out["2026-01-04"]
	require.Len(t, day.Entries, 2)
	assert.Nil(t, day.Entries[0].Media)
	assert.NotNil(t, day.Entries[1].Media)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, out["2026-01-04"].Entries[0], NormalizeJSON(data)["2026-01-04"].Entries[0])
}

func TestTogglePB(t *testing.T) {
	out, pb, err := TogglePB(WorkoutMap{}, "2026-01-04")
	require.NoError(t, err)
	assert.True(t, pb)
	assert.True(t, out["2026-01-04"].PB)

	out, pb, err = TogglePB(out, "2026-01-04")
	require.NoError(t, err)
	assert.False(t, pb)
	_, ok := out["2026-01-04"]
	assert.False(t, ok)
}

func TestSetEntryMedia(t *testing.T) {
	m := WorkoutMap{"2026-01-05": {Entries: []WorkoutEntry{{ID: "w1", Title: "Run", Media: &Media{Kind: MediaImage, Path: "old.jpg"}}}}}
	media := Media{Kind: MediaImage, Path: "u/2026-01-05/w1.jpg", UpdatedAt: 5}

	out, replaced, err := SetEntryMedia(m, "2026-01-05", "w1", media)
	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, "old.jpg", replaced.Path)
	assert.Equal(t, "u/2026-01-05/w1.jpg", out["2026-01-05"].Entries[0].Media.Path)

	// next free slot gets a media-only entry
	out, replaced, err = SetEntryMedia(out, "2026-01-05", "w2", Media{Kind: MediaVideo, Path: "v.mp4"})
	require.NoError(t, err)
	assert.Nil(t, replaced)
	require.Len(t, out["2026-01-05"].Entries, 2)
	assert.Equal(t, "w2", out["2026-01-05"].Entries[1].ID)

	_, _, err = SetEntryMedia(out, "2026-01-05", "w3", Media{Kind: "gif", Path: "x"})
	assert.ErrorIs(t, err, ErrInvalidMedia)
	_, _, err = SetEntryMedia(out, "2026-01-05", "w7", media)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, _, err = SetEntryMedia(testMap(), "2026-01-01", "w4", media)
	assert.ErrorIs(t, err, ErrDayFull)
}

func TestRemoveEntryMedia(t *testing.T) {
	m := WorkoutMap{"2026-01-06": {Entries: []WorkoutEntry{
		{ID: "w1", Media: &Media{Kind: MediaImage, Path: "a.jpg"}},
		{ID: "w2", Title: "keep", Media: &Media{Kind: MediaImage, Path: "b.jpg"}},
	}}}

	out, removed, err := RemoveEntryMedia(m, "2026-01-06", "w2")
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", removed.Path)
	assert.Nil(t, out["2026-01-06"].Entries[1].Media)

	// media-only entry disappears with its media
	out, removed, err = RemoveEntryMedia(out, "2026-01-06", "w1")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", removed.Path)
	assert.Equal(t, []WorkoutEntry{{ID: "w1", Title: "keep"}}, out["2026-01-06"].Entries)

	_, _, err = RemoveEntryMedia(out, "2026-01-07", "w1")
	assert.ErrorIs(t, err, ErrDayNotFound)
	_, _, err = RemoveEntryMedia(out, "2026-01-06", "w3")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRemoveLegacyImage(t *testing.T) {
	m := WorkoutMap{"2026-01-08": {Entries: []WorkoutEntry{}, Image: &LegacyImage{Path: "legacy.jpg"}}}
	out, removed, err := RemoveLegacyImage(m, "2026-01-08")
	require.NoError(t, err)
	assert.Equal(t, "legacy.jpg", removed.Path)
	assert.Empty(t, out)
}

func TestMoveEntry(t *testing.T) {
	out, err := MoveEntry(testMap(), "2026-01-01", 2, 0)
	require.NoError(t, err)
	entries := out["2026-01-01"].Entries
	assert.Equal(t, "stretch", entries[0].Notes)
	assert.Equal(t, "Push", entries[1].Title)
	assert.Equal(t, "Cardio", entries[2].Title)
	for i, e := range entries {
		assert.Equal(t, EntryID(i), e.ID)
	}

	out, err = MoveEntry(out, "2026-01-01", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, testMap()["2026-01-01"].Entries, out["2026-01-01"].Entries)

	_, err = MoveEntry(out, "2026-01-01", 0, 3)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = MoveEntry(out, "2026-02-01", 0, 1)
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestDeleteEntry(t *testing.T) {
	out, removed, err := DeleteEntry(testMap(), "2026-01-01", "w2")
	require.NoError(t, err)
	assert.Equal(t, "Cardio", removed.Title)
	assert.Equal(t, []WorkoutEntry{{ID: "w1", Title: "Push"}, {ID: "w2", Notes: "stretch"}}, out["2026-01-01"].Entries)
}

func TestClearDay(t *testing.T) {
	m := testMap()
	out, removed, ok := ClearDay(m, "2026-01-01")
	assert.True(t, ok)
	assert.Empty(t, out)
	assert.Len(t, removed.Entries, 3)
	assert.Len(t, m, 1)

	_, _, ok = ClearDay(m, "2026-01-09")
	assert.False(t, ok)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmptyEntry(WorkoutEntry{ID: "w1", Title: " ", Notes: "\t"}))
	assert.False(t, IsEmptyEntry(WorkoutEntry{Media: &Media{Kind: MediaImage, Path: "p"}}))
	assert.True(t, IsEmptyDay(WorkoutDay{}))
	assert.False(t, IsEmptyDay(WorkoutDay{PB: true}))
	assert.False(t, IsEmptyDay(WorkoutDay{Image: &LegacyImage{Path: "p"}}))
}

func TestClone(t *testing.T) {
	m := testMap()
	c := Clone(m)
	c["2026-01-01"].Entries[1].Media.Path = "changed"
	c["2026-01-01"].Image.Path = "changed"
	assert.Equal(t, "u/2026-01-01/w2.mp4", m["2026-01-01"].Entries[1].Media.Path)
	assert.Equal(t, "legacy.jpg", m["2026-01-01"].Image.Path)
}

func TestPlaceEntry(t *testing.T) {
	day := testMap()["2026-01-01"]

	_, err := PlaceEntry(day, 0, "Legs", "")
	assert.ErrorIs(t, err, ErrDayFull)

	entries, err := PlaceEntry(day, 2, "Swim", "1km")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Swim", entries[1].Title)
	assert.Equal(t, "1km", entries[1].Notes)
	require.NotNil(t, entries[1].Media)
	assert.Equal(t, "Cardio", day.Entries[1].Title)

	_, err = PlaceEntry(day, 4, "x", "")
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = PlaceEntry(day, -1, "x", "")
	assert.ErrorIs(t, err, ErrInvalidPosition)

	short := WorkoutDay{Entries: []WorkoutEntry{{ID: "w1", Title: "Push"}}}
	entries, err = PlaceEntry(short, 0, "Pull", "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	entries, err = PlaceEntry(short, 2, "Pull", "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	_, err = PlaceEntry(short, 3, "Pull", "")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}
