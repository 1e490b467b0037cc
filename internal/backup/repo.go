package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrBackupNotFound = errors.New("backup not found")

// Backup is the latest snapshot of a user's journal. There is one row per user.
type Backup struct {
	UserID      string    `json:"userId"`
	Data        []byte    `json:"-"`
	ContentHash uint64    `json:"contentHash"`
	Days        int       `json:"days"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert replaces the user's backup row.
func (r *Repo) Upsert(ctx context.Context, b Backup) (err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "repo.backup.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", b.UserID))
	span.SetAttributes(attribute.Int("days", b.Days))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO backups (user_id, data, content_hash, days, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE
				SET data = EXCLUDED.data,
					content_hash = EXCLUDED.content_hash,
					days = EXCLUDED.days,
					updated_at = EXCLUDED.updated_at;`,
		b.UserID, string(b.Data), int64(b.ContentHash), b.Days, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert backup: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *Backup, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "repo.backup.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	row := r.db.QueryRow(
		ctx,
		`SELECT user_id, data, content_hash, days, updated_at FROM backups WHERE user_id = $1;`,
		userID,
	)
	b, err := scanBackup(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repo) Delete(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "repo.backup.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM backups WHERE user_id = $1;`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBackupNotFound
	}
	return nil
}

// ListAll returns every backup updated at or after since, oldest first.
func (r *Repo) ListAll(ctx context.Context, since time.Time) (_ []Backup, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "repo.backup.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("since", since.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT user_id, data, content_hash, days, updated_at FROM backups
			WHERE updated_at >= $1
			ORDER BY updated_at ASC;`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		backups = append(backups, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return backups, nil
}

func scanBackup(row pgx.Row) (*Backup, error) {
	var (
		b    Backup
		data string
		hash int64
	)
	if err := row.Scan(&b.UserID, &data, &hash, &b.Days, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Data = []byte(data)
	b.ContentHash = uint64(hash)
	return &b, nil
}
