package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

var testClock = datekey.StubClock{T: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}

func TestLocalStore_Workouts(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStoreWithClock(NewMemoryKV(), testClock)

	m, err := store.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	saved := workouts.WorkoutMap{
		"2026-10-15": {Entries: []workouts.WorkoutEntry{{ID: "w1", Title: "Push", Notes: "bench"}}, PB: true},
	}
	require.NoError(t, store.SaveWorkouts(ctx, saved))

	m, err = store.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, m)
}

func TestLocalStore_CorruptWorkouts(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewLocalStoreWithClock(kv, testClock)

	require.NoError(t, kv.Set(ctx, WorkoutsKey, "{not json"))
	m, err := store.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	require.NoError(t, kv.Set(ctx, WorkoutsKey, `{"bad-key":{"title":"x"},"2026-01-01":{"title":"legacy","pb":1}}`))
	m, err = store.LoadWorkouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, workouts.WorkoutMap{
		"2026-01-01": {Entries: []workouts.WorkoutEntry{{ID: "w1", Title: "legacy"}}, PB: true},
	}, m)
}

func TestLocalStore_Settings(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewLocalStore(kv)

	settings, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, workouts.DefaultSettings(), settings)

	// only the older standalone key
	require.NoError(t, kv.Set(ctx, WeekStartKey, "monday"))
	settings, err = store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "monday", settings.WeekStart)

	// broken settings object falls back to the standalone key
	require.NoError(t, kv.Set(ctx, SettingsKey, `{"weekStart":"friday"}`))
	settings, err = store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "monday", settings.WeekStart)

	require.NoError(t, store.SaveSettings(ctx, workouts.Settings{WeekStart: "sunday"}))
	assert.Equal(t, []string{SettingsKey, WeekStartKey}, kv.Keys())
	raw, err := kv.Get(ctx, WeekStartKey)
	require.NoError(t, err)
	assert.Equal(t, "sunday", raw)

	assert.Error(t, store.SaveSettings(ctx, workouts.Settings{WeekStart: "tuesday"}))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, kv.Keys())
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("boom") }
func (failingKV) Set(context.Context, string, string) error   { return errors.New("boom") }
func (failingKV) Delete(context.Context, string) error        { return errors.New("boom") }

func TestLocalStore_PropagatesKVErrors(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(failingKV{})

	_, err := store.LoadWorkouts(ctx)
	assert.Error(t, err)
	_, err = store.LoadSettings(ctx)
	assert.Error(t, err)
	assert.Error(t, store.SaveWorkouts(ctx, workouts.WorkoutMap{}))
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	alice := Scoped(kv, "gymlog-user||alice")
	bob := Scoped(kv, "gymlog-user||bob:")

	require.NoError(t, alice.Set(ctx, "k", "a"))
	require.NoError(t, bob.Set(ctx, "k", "b"))

	v, err := alice.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, []string{"gymlog-user||alice:k", "gymlog-user||bob:k"}, kv.Keys())

	require.NoError(t, bob.Delete(ctx, "k"))
	_, err = bob.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
