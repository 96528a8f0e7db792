package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/shared/storage/db"
)

type columns struct {
	count     string
	lastReset string
}

var featureColumns = map[Feature]columns{
	FeatureTransform:     {count: "transform_usage", lastReset: "transform_last_reset"},
	FeatureAISuggestions: {count: "ai_suggestion_usage", lastReset: "ai_suggestion_last_reset"},
}

// PGStore keeps counters in the user_usage table, one row per user.
type PGStore struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(database *sql.DB) *PGStore {
	return &PGStore{DB: database, now: time.Now}
}

func (s *PGStore) Get(ctx context.Context, userID string, feature Feature, window time.Duration) (Counter, error) {
	cols, ok := featureColumns[feature]
	if !ok {
		return Counter{}, ErrUnknownFeature
	}
	out := Counter{Feature: feature}
	err := db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var lastReset sql.NullTime
		row := tx.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT %s, %s FROM user_usage WHERE user_id = $1 FOR UPDATE`, cols.count, cols.lastReset), userID)
		if err := row.Scan(&out.Count, &lastReset); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		if lastReset.Valid {
			t := lastReset.Time.UTC()
			out.LastReset = &t
		}

		now := s.now().UTC()
		if !windowExpired(out, window, now) {
			return nil
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(
			`UPDATE user_usage SET %s = 0, %s = $2 WHERE user_id = $1`, cols.count, cols.lastReset), userID, now); err != nil {
			return err
		}
		out.Count = 0
		out.LastReset = &now
		return nil
	})
	if err != nil {
		return Counter{}, fmt.Errorf("read usage: %w", err)
	}
	return out, nil
}

func (s *PGStore) Increment(ctx context.Context, userID string, feature Feature, windowed bool) (Counter, error) {
	cols, ok := featureColumns[feature]
	if !ok {
		return Counter{}, ErrUnknownFeature
	}

	var query string
	args := []any{userID}
	if windowed {
		// The CASE reads the pre-update row, so only the 0 -> 1 step refreshes the window start.
		query = fmt.Sprintf(`
INSERT INTO user_usage (user_id, %[1]s, %[2]s) VALUES ($1, 1, $2)
ON CONFLICT (user_id) DO UPDATE SET
    %[1]s = user_usage.%[1]s + 1,
    %[2]s = CASE WHEN user_usage.%[1]s = 0 THEN EXCLUDED.%[2]s ELSE user_usage.%[2]s END
RETURNING %[1]s, %[2]s`, cols.count, cols.lastReset)
		args = append(args, s.now().UTC())
	} else {
		query = fmt.Sprintf(`
INSERT INTO user_usage (user_id, %[1]s) VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE SET %[1]s = user_usage.%[1]s + 1
RETURNING %[1]s, %[2]s`, cols.count, cols.lastReset)
	}

	out := Counter{Feature: feature}
	var lastReset sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&out.Count, &lastReset); err != nil {
		return Counter{}, fmt.Errorf("increment usage: %w", err)
	}
	if lastReset.Valid {
		t := lastReset.Time.UTC()
		out.LastReset = &t
	}
	return out, nil
}

var _ Store = (*PGStore)(nil)
