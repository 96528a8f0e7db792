package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo stores saved resumes in user_resumes.
type PGRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGRepo constructs a Postgres-backed Repo.
func NewPGRepo(database *sql.DB) *PGRepo {
	return &PGRepo{DB: database, now: time.Now}
}

const listLiveSQL = `
SELECT id, resume_id, data, updated_at
FROM user_resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC, id DESC`

func (r *PGRepo) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := r.DB.QueryContext(ctx, listLiveSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, MaxLive)
	for rows.Next() {
		var (
			e         Entry
			updatedAt time.Time
		)
		if err := rows.Scan(&e.RowID, &e.ResumeID, &e.Data, &updatedAt); err != nil {
			return nil, err
		}
		e.UpdatedAt = updatedAt.UnixMilli()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepo) Save(ctx context.Context, userID string, in SaveInput) error {
	now := r.now().UTC()
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_resumes (id, user_id, resume_id, data, updated_at, deleted_at)
VALUES ($1, $2, $3, $4, $5, NULL)
ON CONFLICT (user_id, resume_id) DO UPDATE
SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at, deleted_at = NULL`,
			uuid.NewString(), userID, in.ResumeID, in.Data, now); err != nil {
			return fmt.Errorf("upsert resume: %w", err)
		}
		return enforceCap(ctx, tx, userID, now)
	})
}

func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE user_resumes SET deleted_at = $3
WHERE user_id = $1 AND resume_id = $2 AND deleted_at IS NULL`, userID, resumeID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	return requireRow(res)
}

func (r *PGRepo) Restore(ctx context.Context, userID, resumeID string) error {
	now := r.now().UTC()
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
UPDATE user_resumes SET deleted_at = NULL, updated_at = $3
WHERE user_id = $1 AND resume_id = $2`, userID, resumeID, now)
		if err != nil {
			return fmt.Errorf("restore resume: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return enforceCap(ctx, tx, userID, now)
	})
}

// lockUser serializes writers for one user until the transaction ends.
func lockUser(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID); err != nil {
		return fmt.Errorf("lock user resumes: %w", err)
	}
	return nil
}

func enforceCap(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
UPDATE user_resumes SET deleted_at = $2
WHERE id IN (
    SELECT id FROM user_resumes
    WHERE user_id = $1 AND deleted_at IS NULL
    ORDER BY updated_at DESC, id DESC
    OFFSET $3
)`, userID, now, MaxLive)
	if err != nil {
		return fmt.Errorf("enforce resume cap: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
