package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRow struct {
	entry   Entry
	deleted bool
	seq     uint64
}

// MemoryRepo is an in-memory Repo used in dev and tests.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string][]*memoryRow // userID -> rows
	seq  uint64
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo. A nil clock uses time.Now.
func NewMemoryRepo(now func() time.Time) *MemoryRepo {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepo{rows: make(map[string][]*memoryRow), now: now}
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	live := r.liveLocked(userID)
	out := make([]Entry, 0, len(live))
	for _, row := range live {
		out = append(out, row.entry)
	}
	return out, nil
}

func (r *MemoryRepo) Save(ctx context.Context, userID string, in SaveInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC().UnixMilli()
	if row := r.findLocked(userID, in.ResumeID); row != nil {
		row.entry.Data = in.Data
		row.entry.UpdatedAt = now
		row.deleted = false
		r.touchLocked(row)
	} else {
		row := &memoryRow{entry: Entry{
			RowID:     uuid.NewString(),
			ResumeID:  in.ResumeID,
			Data:      in.Data,
			UpdatedAt: now,
		}}
		r.touchLocked(row)
		r.rows[userID] = append(r.rows[userID], row)
	}
	r.enforceCapLocked(userID)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.findLocked(userID, resumeID)
	if row == nil || row.deleted {
		return ErrNotFound
	}
	row.deleted = true
	return nil
}

func (r *MemoryRepo) Restore(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.findLocked(userID, resumeID)
	if row == nil {
		return ErrNotFound
	}
	row.deleted = false
	row.entry.UpdatedAt = r.now().UTC().UnixMilli()
	r.touchLocked(row)
	r.enforceCapLocked(userID)
	return nil
}

func (r *MemoryRepo) findLocked(userID, resumeID string) *memoryRow {
	for _, row := range r.rows[userID] {
		if row.entry.ResumeID == resumeID {
			return row
		}
	}
	return nil
}

func (r *MemoryRepo) touchLocked(row *memoryRow) {
	r.seq++
	row.seq = r.seq
}

// liveLocked returns non-deleted rows newest first. seq breaks ties between
// writes that land on the same millisecond.
func (r *MemoryRepo) liveLocked(userID string) []*memoryRow {
	var live []*memoryRow
	for _, row := range r.rows[userID] {
		if !row.deleted {
			live = append(live, row)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].entry.UpdatedAt != live[j].entry.UpdatedAt {
			return live[i].entry.UpdatedAt > live[j].entry.UpdatedAt
		}
		return live[i].seq > live[j].seq
	})
	return live
}

func (r *MemoryRepo) enforceCapLocked(userID string) {
	live := r.liveLocked(userID)
	for i := MaxLive; i < len(live); i++ {
		live[i].deleted = true
	}
}

var _ Repo = (*MemoryRepo)(nil)
