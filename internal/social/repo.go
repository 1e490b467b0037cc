package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/internal/workouts"
	"github.com/2beens/gymlog/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetProfile returns the user's profile. Users that never saved one get the
// defaults: no display name and sharing off.
func (r *Repo) GetProfile(ctx context.Context, userID string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.getprofile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var (
		p           Profile
		displayName *string
		share       *bool
		updatedAt   *time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT u.id, u.username, p.display_name, p.share_workouts, p.updated_at
			FROM users u
			LEFT JOIN profiles p ON p.user_id = u.id
			WHERE u.id = $1;`,
		userID,
	).Scan(&p.UserID, &p.Username, &displayName, &share, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if displayName != nil {
		p.DisplayName = *displayName
	}
	if share != nil {
		p.ShareWorkouts = *share
	}
	if updatedAt != nil {
		p.UpdatedAt = *updatedAt
	}
	return &p, nil
}

func (r *Repo) UpsertProfile(ctx context.Context, p Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.upsertprofile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", p.UserID))
	span.SetAttributes(attribute.Bool("share", p.ShareWorkouts))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profiles (user_id, display_name, share_workouts, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
				SET display_name = EXCLUDED.display_name,
					share_workouts = EXCLUDED.share_workouts,
					updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.DisplayName, p.ShareWorkouts, p.UpdatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUserNotFound
		}
		return err
	}

	if !p.ShareWorkouts {
		// stop sharing drops what was already shared
		if _, err = r.db.Exec(ctx, `DELETE FROM workout_days WHERE user_id = $1;`, p.UserID); err != nil {
			return fmt.Errorf("delete shared days: %w", err)
		}
	}
	return nil
}

func (r *Repo) SharesWorkouts(ctx context.Context, userID string) (bool, error) {
	var share bool
	err := r.db.QueryRow(ctx, `SELECT share_workouts FROM profiles WHERE user_id = $1;`, userID).Scan(&share)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return share, nil
}

// SendRequest creates a pending request from fromUserID to the user called toUsername.
// A previously declined request is reopened.
func (r *Repo) SendRequest(ctx context.Context, fromUserID, toUsername string) (_ *FriendRequest, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.sendrequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("from.user.id", fromUserID))
	span.SetAttributes(attribute.String("to.username", toUsername))

	var toUserID string
	err = r.db.QueryRow(ctx, `SELECT id FROM users WHERE username = $1;`, toUsername).Scan(&toUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if toUserID == fromUserID {
		return nil, ErrSelfRequest
	}

	var friends bool
	err = r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2);`,
		fromUserID, toUserID,
	).Scan(&friends)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	req := FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		ToUsername: toUsername,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO friend_requests (id, from_user_id, to_user_id, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (from_user_id, to_user_id) DO UPDATE
				SET status = EXCLUDED.status, created_at = EXCLUDED.created_at
				WHERE friend_requests.status <> 'pending'
			RETURNING id;`,
		req.ID, req.FromUserID, req.ToUserID, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestExists
		}
		return nil, err
	}

	return &req, nil
}

func (r *Repo) ListRequests(ctx context.Context, userID string) (_ *Requests, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.listrequests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT fr.id, fr.from_user_id, uf.username, fr.to_user_id, ut.username, fr.status, fr.created_at
			FROM friend_requests fr
			JOIN users uf ON uf.id = fr.from_user_id
			JOIN users ut ON ut.id = fr.to_user_id
			WHERE fr.status = 'pending' AND (fr.from_user_id = $1 OR fr.to_user_id = $1)
			ORDER BY fr.created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := &Requests{
		Incoming: []FriendRequest{},
		Outgoing: []FriendRequest{},
	}
	for rows.Next() {
		var fr FriendRequest
		if err := rows.Scan(&fr.ID, &fr.FromUserID, &fr.FromUsername, &fr.ToUserID, &fr.ToUsername, &fr.Status, &fr.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if fr.ToUserID == userID {
			requests.Incoming = append(requests.Incoming, fr)
		} else {
			requests.Outgoing = append(requests.Outgoing, fr)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// RespondRequest accepts or declines a pending request addressed to userID.
// Accepting creates the friendship in both directions.
func (r *Repo) RespondRequest(ctx context.Context, requestID, userID string, accept bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.respondrequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("request.id", requestID))
	span.SetAttributes(attribute.Bool("accept", accept))

	status := StatusDeclined
	if accept {
		status = StatusAccepted
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var fromUserID string
	err = tx.QueryRow(
		ctx,
		`UPDATE friend_requests SET status = $1
			WHERE id = $2 AND to_user_id = $3 AND status = 'pending'
			RETURNING from_user_id;`,
		status, requestID, userID,
	).Scan(&fromUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRequestNotFound
		}
		return err
	}

	if accept {
		_, err = tx.Exec(
			ctx,
			`INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2), ($2, $1)
				ON CONFLICT DO NOTHING;`,
			userID, fromUserID,
		)
		if err != nil {
			return fmt.Errorf("insert friendship: %w", err)
		}
		// a crossing request the other way is settled too
		_, err = tx.Exec(
			ctx,
			`UPDATE friend_requests SET status = 'accepted'
				WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending';`,
			userID, fromUserID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) ListFriends(ctx context.Context, userID string) (_ []Friend, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.listfriends")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT f.friend_id, u.username, COALESCE(p.display_name, ''), f.created_at
			FROM friendships f
			JOIN users u ON u.id = f.friend_id
			LEFT JOIN profiles p ON p.user_id = f.friend_id
			WHERE f.user_id = $1
			ORDER BY u.username;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []Friend{}
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.UserID, &f.Username, &f.DisplayName, &f.Since); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return friends, nil
}

func (r *Repo) RemoveFriend(ctx context.Context, userID, friendID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.removefriend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("friend.id", friendID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM friendships
			WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1);`,
		userID, friendID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFriendNotFound
	}
	return nil
}

func (r *Repo) UpsertDay(ctx context.Context, userID, date string, day workouts.WorkoutDay) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.upsertday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("date", date))

	snapshot, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("marshal day: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout_days (user_id, date, snapshot, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (user_id, date) DO UPDATE
				SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at;`,
		userID, date, string(snapshot),
	)
	return err
}

func (r *Repo) DeleteDay(ctx context.Context, userID, date string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.deleteday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("date", date))

	_, err = r.db.Exec(ctx, `DELETE FROM workout_days WHERE user_id = $1 AND date = $2;`, userID, date)
	return err
}

// FeedDays lists friends' shared days from sinceDate on, newest first.
func (r *Repo) FeedDays(ctx context.Context, userID, sinceDate string, limit int) (_ []FeedItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.social.feeddays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("since", sinceDate))
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(
		ctx,
		`SELECT wd.user_id, u.username, p.display_name, wd.date, wd.snapshot, wd.updated_at
			FROM friendships f
			JOIN profiles p ON p.user_id = f.friend_id AND p.share_workouts
			JOIN users u ON u.id = f.friend_id
			JOIN workout_days wd ON wd.user_id = f.friend_id
			WHERE f.user_id = $1 AND wd.date >= $2
			ORDER BY wd.date DESC, wd.updated_at DESC
			LIMIT $3;`,
		userID, sinceDate, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []FeedItem{}
	for rows.Next() {
		var (
			item     FeedItem
			snapshot string
		)
		if err := rows.Scan(&item.UserID, &item.Username, &item.DisplayName, &item.Date, &snapshot, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &item.Day); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %s/%s: %w", item.UserID, item.Date, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
