package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/workouts"

	log "github.com/sirupsen/logrus"
)

const (
	WorkoutsKey  = "gym-log-workouts"
	SettingsKey  = "gym-log-settings"
	WeekStartKey = "gym-log-week-start"
)

// LocalStore reads and writes the journal under its three well known keys.
// Whatever is read back goes through the normalizer, so a corrupt value
// never reaches callers.
type LocalStore struct {
	kv    KV
	clock datekey.Clock
}

func NewLocalStore(kv KV) *LocalStore {
	return &LocalStore{
		kv:    kv,
		clock: datekey.RealClock{},
	}
}

func NewLocalStoreWithClock(kv KV, clock datekey.Clock) *LocalStore {
	return &LocalStore{
		kv:    kv,
		clock: clock,
	}
}

// LoadWorkouts returns the stored map. A missing or unparsable value is an empty map.
func (s *LocalStore) LoadWorkouts(ctx context.Context) (workouts.WorkoutMap, error) {
	raw, err := s.kv.Get(ctx, WorkoutsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return workouts.WorkoutMap{}, nil
		}
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Warnf("[local store] stored workouts unreadable, starting empty: %s", err)
		return workouts.WorkoutMap{}, nil
	}
	return workouts.NormalizeWithClock(decoded, s.clock), nil
}

// LoadWorkoutsRaw returns the stored value as is, or "{}" when nothing is stored.
func (s *LocalStore) LoadWorkoutsRaw(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, WorkoutsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "{}", nil
		}
		return "", fmt.Errorf("load workouts: %w", err)
	}
	return raw, nil
}

// SaveWorkouts replaces the whole stored map.
func (s *LocalStore) SaveWorkouts(ctx context.Context, m workouts.WorkoutMap) error {
	if m == nil {
		m = workouts.WorkoutMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}
	if err := s.kv.Set(ctx, WorkoutsKey, string(data)); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}
	return nil
}

// LoadSettings prefers the settings object, then the older standalone
// week-start value, then the defaults.
func (s *LocalStore) LoadSettings(ctx context.Context) (workouts.Settings, error) {
	raw, err := s.kv.Get(ctx, SettingsKey)
	switch {
	case err == nil:
		var settings workouts.Settings
		if jsonErr := json.Unmarshal([]byte(raw), &settings); jsonErr == nil && workouts.ValidWeekStart(settings.WeekStart) {
			return settings, nil
		}
		log.Debugf("[local store] settings value ignored: %s", raw)
	case !errors.Is(err, ErrKeyNotFound):
		return workouts.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	weekStart, err := s.kv.Get(ctx, WeekStartKey)
	switch {
	case err == nil:
		weekStart = strings.Trim(strings.TrimSpace(weekStart), `"`)
		if workouts.ValidWeekStart(weekStart) {
			return workouts.Settings{WeekStart: weekStart}, nil
		}
	case !errors.Is(err, ErrKeyNotFound):
		return workouts.Settings{}, fmt.Errorf("load week start: %w", err)
	}

	return workouts.DefaultSettings(), nil
}

// SaveSettings writes the settings object and the standalone week-start key.
func (s *LocalStore) SaveSettings(ctx context.Context, settings workouts.Settings) error {
	if !workouts.ValidWeekStart(settings.WeekStart) {
		return fmt.Errorf("%w: week start %q", ErrInvalidSettings, settings.WeekStart)
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.kv.Set(ctx, SettingsKey, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.kv.Set(ctx, WeekStartKey, settings.WeekStart); err != nil {
		return fmt.Errorf("save week start: %w", err)
	}
	return nil
}

// Clear removes everything the store owns.
func (s *LocalStore) Clear(ctx context.Context) error {
	for _, key := range []string{WorkoutsKey, SettingsKey, WeekStartKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}
