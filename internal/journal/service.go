// Package journal runs every journal operation of a user against that
// user's local store and fans the result out to the secondary features:
// the debounced backup, the friends feed and media storage. Secondary
// failures are logged, they never fail the save.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/backup"
	"github.com/2beens/gymlog/internal/calendar"
	"github.com/2beens/gymlog/internal/csvio"
	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/media"
	"github.com/2beens/gymlog/internal/storage"
	"github.com/2beens/gymlog/internal/structured"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// UserKeyPrefix namespaces every user's local store in the shared KV.
const UserKeyPrefix = "gymlog-user||"

var (
	ErrConfirmationRequired = backup.ErrConfirmationRequired
	ErrNoMediaStore         = errors.New("media storage not configured")
	ErrNoBackups            = errors.New("backups not configured")
	ErrMediaNotOwned        = errors.New("media does not belong to user")
	ErrStructuredNotFound   = errors.New("no structured workout in entry")
)

type backupService interface {
	Schedule(userID string, m workouts.WorkoutMap)
	BackupNow(ctx context.Context, userID string, m workouts.WorkoutMap) (*backup.Backup, error)
	Info(ctx context.Context, userID string) (*backup.Backup, error)
	Restore(ctx context.Context, userID string, confirm bool) (workouts.WorkoutMap, error)
	Forget(ctx context.Context, userID string) error
}

type dayPublisher interface {
	Publish(userID, date string, day workouts.WorkoutDay)
}

type Params struct {
	KV storage.KV
	// KeyPrefix is prepended to the user id to scope the KV per user.
	// Empty means a single user owning the bare keys (the local CLI).
	KeyPrefix      string
	Clock          datekey.Clock
	Backups        backupService
	Publisher      dayPublisher
	Media          media.Store
	MetricsManager *metrics.Manager
}

type Service struct {
	kv             storage.KV
	keyPrefix      string
	clock          datekey.Clock
	backups        backupService
	publisher      dayPublisher
	media          media.Store
	metricsManager *metrics.Manager

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(params Params) *Service {
	clock := params.Clock
	if clock == nil {
		clock = datekey.RealClock{}
	}
	return &Service{
		kv:             params.KV,
		keyPrefix:      params.KeyPrefix,
		clock:          clock,
		backups:        params.Backups,
		publisher:      params.Publisher,
		media:          params.Media,
		metricsManager: params.MetricsManager,
		locks:          map[string]*sync.Mutex{},
	}
}

func (s *Service) Today() string {
	return datekey.Today(s.clock)
}

func (s *Service) store(userID string) *storage.LocalStore {
	if s.keyPrefix == "" {
		return storage.NewLocalStoreWithClock(s.kv, s.clock)
	}
	return storage.NewLocalStoreWithClock(storage.Scoped(s.kv, s.keyPrefix+userID), s.clock)
}

// lock serializes read-modify-write cycles of one user.
func (s *Service) lock(userID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) Workouts(ctx context.Context, userID string) (_ workouts.WorkoutMap, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.store(userID).LoadWorkouts(ctx)
}

func (s *Service) Day(ctx context.Context, userID, date string) (workouts.WorkoutDay, bool, error) {
	if !datekey.Valid(date) {
		return workouts.WorkoutDay{}, false, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, date)
	}
	m, err := s.Workouts(ctx, userID)
	if err != nil {
		return workouts.WorkoutDay{}, false, err
	}
	day, ok := m[date]
	return day, ok, nil
}

// update loads the user's map, applies change and, when change succeeds,
// replaces the whole stored map with its result.
func (s *Service) update(
	ctx context.Context,
	userID string,
	change func(m workouts.WorkoutMap) (workouts.WorkoutMap, error),
) (_ workouts.WorkoutMap, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	unlock := s.lock(userID)
	defer unlock()

	store := s.store(userID)
	current, err := store.LoadWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := change(current)
	if err != nil {
		return nil, err
	}

	if err := store.SaveWorkouts(ctx, updated); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}

	s.afterSave(userID, current, updated)
	return updated, nil
}

// afterSave schedules the backup and publishes the days that changed.
func (s *Service) afterSave(userID string, before, after workouts.WorkoutMap) {
	if s.backups != nil {
		s.backups.Schedule(userID, after)
	}

	changed := ChangedDays(before, after)
	if s.metricsManager != nil {
		s.metricsManager.CounterDaysSaved.Add(float64(len(changed)))
	}
	if s.publisher == nil {
		return
	}
	for _, date := range changed {
		s.publisher.Publish(userID, date, after[date])
	}
}

// ChangedDays lists the date keys whose day differs between before and
// after, removed days included, sorted.
func ChangedDays(before, after workouts.WorkoutMap) []string {
	union := workouts.WorkoutMap{}
	for k, d := range before {
		union[k] = d
	}
	for k, d := range after {
		union[k] = d
	}

	var changed []string
	for _, k := range union.SortedKeys() {
		b, inBefore := before[k]
		a, inAfter := after[k]
		if inBefore != inAfter || !reflect.DeepEqual(b, a) {
			changed = append(changed, k)
		}
	}
	return changed
}

// ReplaceWorkouts stores a whole new map. The input goes through the
// storage normalizer, so any shape the normalizer accepts is fine.
func (s *Service) ReplaceWorkouts(ctx context.Context, userID string, raw []byte) (workouts.WorkoutMap, error) {
	normalized := workouts.NormalizeJSONWithClock(raw, s.clock)
	return s.update(ctx, userID, func(workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		return normalized, nil
	})
}

func (s *Service) SaveDay(ctx context.Context, userID, date string, entries []workouts.WorkoutEntry, pb bool) (workouts.WorkoutDay, error) {
	var removedMedia []string
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, err := workouts.SaveDay(m, date, entries, pb)
		if err != nil {
			return nil, err
		}
		removedMedia = droppedMediaPaths(m[date], updated[date])
		return updated, nil
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	s.deleteMedia(userID, removedMedia...)
	return m[date], nil
}

// ClearDay removes the whole day together with its media.
func (s *Service) ClearDay(ctx context.Context, userID, date string) (bool, error) {
	if !datekey.Valid(date) {
		return false, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, date)
	}

	var (
		removed []string
		existed bool
	)
	_, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, day, ok := workouts.ClearDay(m, date)
		existed = ok
		removed = mediaPaths(day)
		return updated, nil
	})
	if err != nil {
		return false, err
	}
	s.deleteMedia(userID, removed...)
	return existed, nil
}

func (s *Service) TogglePB(ctx context.Context, userID, date string) (bool, error) {
	var pb bool
	_, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, newPB, err := workouts.TogglePB(m, date)
		pb = newPB
		return updated, err
	})
	return pb, err
}

func (s *Service) MoveEntry(ctx context.Context, userID, date string, from, to int) (workouts.WorkoutDay, error) {
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		return workouts.MoveEntry(m, date, from, to)
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	return m[date], nil
}

func (s *Service) DeleteEntry(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error) {
	var removed *workouts.WorkoutEntry
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, entry, err := workouts.DeleteEntry(m, date, entryID)
		removed = entry
		return updated, err
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	if removed != nil && removed.Media != nil {
		s.deleteMedia(userID, removed.Media.Path)
	}
	return m[date], nil
}

func (s *Service) Structured(ctx context.Context, userID, date, entryID string) (*structured.Workout, error) {
	day, ok, err := s.Day(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, workouts.ErrDayNotFound
	}
	idx, ok := day.Entry(entryID)
	if !ok {
		return nil, workouts.ErrEntryNotFound
	}
	w := structured.Decode(day.Entries[idx].Notes)
	if w == nil {
		return nil, ErrStructuredNotFound
	}
	return w, nil
}

// UpsertStructured writes w into the entry's notes, replacing an existing
// block in place or appending a new one. Saving into the next free slot
// creates the entry.
func (s *Service) UpsertStructured(ctx context.Context, userID, date, entryID string, w structured.Workout) (workouts.WorkoutDay, error) {
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		if !datekey.Valid(date) {
			return nil, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, date)
		}
		day := m[date].Clone()
		if _, ok := day.Entry(entryID); !ok {
			if entryID != workouts.EntryID(len(day.Entries)) {
				return nil, workouts.ErrEntryNotFound
			}
			if len(day.Entries) >= workouts.MaxEntriesPerDay {
				return nil, workouts.ErrDayFull
			}
			day.Entries = append(day.Entries, workouts.WorkoutEntry{ID: entryID})
			m = workouts.Clone(m)
			m[date] = day
		}
		return workouts.UpdateEntryNotes(m, date, entryID, func(notes string) string {
			return structured.UpsertBlock(notes, w)
		})
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	return m[date], nil
}

func (s *Service) RemoveStructured(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error) {
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		return workouts.UpdateEntryNotes(m, date, entryID, structured.RemoveBlock)
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	return m[date], nil
}

type MediaUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	DurationSec *float64
	Width       *int
	Height      *int
}

// AttachMedia uploads the object first and only then points the entry at
// it. A replaced object under a different key is deleted afterwards.
func (s *Service) AttachMedia(ctx context.Context, userID, date, entryID string, upload MediaUpload) (_ *workouts.Media, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.attachmedia")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.media == nil {
		return nil, ErrNoMediaStore
	}
	if !datekey.Valid(date) {
		return nil, fmt.Errorf("%w: %q", datekey.ErrInvalidKey, date)
	}
	kind, ext, err := media.Classify(upload.ContentType)
	if err != nil {
		return nil, err
	}

	existing, _, err := s.Day(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	key := objectKeyFor(existing, userID, date, entryID, ext, now)

	if err := s.media.Put(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}

	attached := workouts.Media{
		Kind:        kind,
		Path:        key,
		UpdatedAt:   now.UnixMilli(),
		DurationSec: upload.DurationSec,
		Width:       upload.Width,
		Height:      upload.Height,
	}
	if upload.Size > 0 {
		size := upload.Size
		attached.SizeBytes = &size
	}

	var replaced *workouts.Media
	_, err = s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, old, err := workouts.SetEntryMedia(m, date, entryID, attached)
		replaced = old
		return updated, err
	})
	if err != nil {
		// the entry never pointed at the new object
		if !referencesPath(existing, key) {
			s.deleteMedia(userID, key)
		}
		return nil, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterMediaUploads.WithLabelValues(string(kind)).Inc()
	}
	if replaced != nil && replaced.Path != key {
		s.deleteMedia(userID, replaced.Path)
	}
	return &attached, nil
}

// objectKeyFor picks the entry's canonical object key, unless another entry
// of the day still points at it (entries moved around), then the key gets
// a time suffix.
func objectKeyFor(day workouts.WorkoutDay, userID, date, entryID, ext string, now time.Time) string {
	key := media.ObjectKey(userID, date, entryID, ext)
	for _, e := range day.Entries {
		if e.ID != entryID && e.Media != nil && e.Media.Path == key {
			return media.ObjectKey(userID, date, entryID+"-"+strconv.FormatInt(now.UnixMilli(), 10), ext)
		}
	}
	return key
}

func referencesPath(day workouts.WorkoutDay, path string) bool {
	for _, p := range mediaPaths(day) {
		if p == path {
			return true
		}
	}
	return false
}

func (s *Service) RemoveMedia(ctx context.Context, userID, date, entryID string) (workouts.WorkoutDay, error) {
	var removed *workouts.Media
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, old, err := workouts.RemoveEntryMedia(m, date, entryID)
		removed = old
		return updated, err
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	if removed != nil {
		s.deleteMedia(userID, removed.Path)
	}
	return m[date], nil
}

func (s *Service) RemoveLegacyImage(ctx context.Context, userID, date string) (workouts.WorkoutDay, error) {
	var removed *workouts.LegacyImage
	m, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		updated, old, err := workouts.RemoveLegacyImage(m, date)
		removed = old
		return updated, err
	})
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	if removed != nil {
		s.deleteMedia(userID, removed.Path)
	}
	return m[date], nil
}

// MediaURL resolves a stored media path of the user to a fetchable URL.
func (s *Service) MediaURL(ctx context.Context, userID, path string) (string, error) {
	if s.media == nil {
		return "", ErrNoMediaStore
	}
	if !media.OwnedBy(path, userID) {
		return "", ErrMediaNotOwned
	}
	return s.media.URL(ctx, path)
}

// deleteMedia removes objects no entry points at anymore. Legacy paths
// that are not ours to manage are left alone.
func (s *Service) deleteMedia(userID string, paths ...string) {
	if s.media == nil || len(paths) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range paths {
		if !media.OwnedBy(p, userID) {
			continue
		}
		if err := s.media.Delete(ctx, p); err != nil && !errors.Is(err, media.ErrObjectNotFound) {
			log.Errorf("[journal] delete media %s of [%s]: %s", p, userID, err)
		}
	}
}

func mediaPaths(d workouts.WorkoutDay) []string {
	var paths []string
	for _, e := range d.Entries {
		if e.Media != nil {
			paths = append(paths, e.Media.Path)
		}
	}
	if d.Image != nil {
		paths = append(paths, d.Image.Path)
	}
	return paths
}

// droppedMediaPaths lists media referenced by before but not by after.
func droppedMediaPaths(before, after workouts.WorkoutDay) []string {
	kept := map[string]bool{}
	for _, p := range mediaPaths(after) {
		kept[p] = true
	}
	var dropped []string
	for _, p := range mediaPaths(before) {
		if !kept[p] {
			dropped = append(dropped, p)
		}
	}
	return dropped
}

func (s *Service) Streaks(ctx context.Context, userID string) (workouts.Stats, error) {
	m, err := s.Workouts(ctx, userID)
	if err != nil {
		return workouts.Stats{}, err
	}
	return workouts.ComputeStreaks(m, s.Today()), nil
}

type CalendarParams struct {
	Year      int
	Month     time.Month
	WeekStart string // empty means the user's setting
	Scope     string
	Selected  string
}

// Calendar builds the month view. Today is taken from the wall clock on
// every call, so a view built after midnight moves the today marker.
func (s *Service) Calendar(ctx context.Context, userID string, params CalendarParams) (calendar.View, error) {
	m, err := s.Workouts(ctx, userID)
	if err != nil {
		return calendar.View{}, err
	}

	weekStart := params.WeekStart
	if weekStart == "" {
		settings, err := s.Settings(ctx, userID)
		if err != nil {
			return calendar.View{}, err
		}
		weekStart = settings.WeekStart
	}

	now := s.clock.Now()
	viewParams := calendar.ViewParams{
		Month:     datekey.Date(params.Year, params.Month, 1, now.Location()),
		WeekStart: weekStart,
		Scope:     params.Scope,
		Today:     now,
	}
	if params.Selected != "" {
		selected, err := datekey.Parse(params.Selected, now.Location())
		if err != nil {
			return calendar.View{}, err
		}
		viewParams.Selected = &selected
	}

	return calendar.BuildView(m, viewParams), nil
}

func (s *Service) ExportCSV(ctx context.Context, userID string) (string, error) {
	m, err := s.Workouts(ctx, userID)
	if err != nil {
		return "", err
	}
	return csvio.Export(m), nil
}

// ImportCSV merges the CSV into the journal. When existing slots would get
// different content and confirm is false nothing is written and the
// report comes back with ErrConfirmationRequired.
func (s *Service) ImportCSV(ctx context.Context, userID, text string, confirm bool) (csvio.ImportReport, error) {
	var report csvio.ImportReport
	_, err := s.update(ctx, userID, func(m workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		merged, r := csvio.Import(m, text)
		report = r
		if r.Overwritten > 0 && !confirm {
			return nil, ErrConfirmationRequired
		}
		return merged, nil
	})

	if s.metricsManager != nil && err == nil {
		s.metricsManager.CounterCsvImportedRows.WithLabelValues("imported").Add(float64(report.Imported))
		s.metricsManager.CounterCsvImportedRows.WithLabelValues("skipped").Add(float64(report.Skipped))
	}
	return report, err
}

func (s *Service) Settings(ctx context.Context, userID string) (workouts.Settings, error) {
	return s.store(userID).LoadSettings(ctx)
}

func (s *Service) SaveSettings(ctx context.Context, userID string, settings workouts.Settings) error {
	unlock := s.lock(userID)
	defer unlock()
	return s.store(userID).SaveSettings(ctx, settings)
}

func (s *Service) BackupNow(ctx context.Context, userID string) (*backup.Backup, error) {
	if s.backups == nil {
		return nil, ErrNoBackups
	}
	m, err := s.Workouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.backups.BackupNow(ctx, userID, m)
}

func (s *Service) BackupInfo(ctx context.Context, userID string) (*backup.Backup, error) {
	if s.backups == nil {
		return nil, ErrNoBackups
	}
	return s.backups.Info(ctx, userID)
}

// Restore replaces the journal with the latest backup.
func (s *Service) Restore(ctx context.Context, userID string, confirm bool) (workouts.WorkoutMap, error) {
	if s.backups == nil {
		return nil, ErrNoBackups
	}
	restored, err := s.backups.Restore(ctx, userID, confirm)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(workouts.WorkoutMap) (workouts.WorkoutMap, error) {
		return restored, nil
	})
}

// DeleteUserData drops everything the user owns outside the users table:
// the local store, media objects and the backup row.
func (s *Service) DeleteUserData(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.deleteuserdata")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	unlock := s.lock(userID)
	defer unlock()

	if s.backups != nil {
		if err := s.backups.Forget(ctx, userID); err != nil {
			return fmt.Errorf("forget backup: %w", err)
		}
	}
	if s.media != nil {
		if err := s.media.DeletePrefix(ctx, media.UserPrefix(userID)); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
	}
	if err := s.store(userID).Clear(ctx); err != nil {
		return fmt.Errorf("clear local store: %w", err)
	}

	log.Debugf("[journal] data of [%s] deleted", userID)
	return nil
}
