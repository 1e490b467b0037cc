package backup

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/workouts"
)

var ErrConfirmationRequired = errors.New("confirmation required")

type backupStore interface {
	Get(ctx context.Context, userID string) (*Backup, error)
	Delete(ctx context.Context, userID string) error
}

type Service struct {
	store     backupStore
	debouncer *Debouncer
}

func NewService(store backupStore, debouncer *Debouncer) *Service {
	return &Service{
		store:     store,
		debouncer: debouncer,
	}
}

func (s *Service) Schedule(userID string, m workouts.WorkoutMap) {
	s.debouncer.Schedule(userID, m)
}

func (s *Service) BackupNow(ctx context.Context, userID string, m workouts.WorkoutMap) (*Backup, error) {
	return s.debouncer.Now(ctx, userID, m)
}

// Info returns the stored backup metadata, or ErrBackupNotFound.
func (s *Service) Info(ctx context.Context, userID string) (*Backup, error) {
	return s.store.Get(ctx, userID)
}

// Restore returns the journal held by the latest backup. Restoring replaces
// the whole local journal, so it needs an explicit confirm.
func (s *Service) Restore(ctx context.Context, userID string, confirm bool) (workouts.WorkoutMap, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}

	b, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return workouts.NormalizeJSON(b.Data), nil
}

// Forget drops the user's backup row and anything pending for them.
func (s *Service) Forget(ctx context.Context, userID string) error {
	s.debouncer.Cancel(userID)
	if err := s.store.Delete(ctx, userID); err != nil && !errors.Is(err, ErrBackupNotFound) {
		return err
	}
	return nil
}

func (s *Service) Flush(ctx context.Context) {
	s.debouncer.Flush(ctx)
}
