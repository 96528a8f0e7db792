package history

import "context"

// Repo persists saved resumes. Every write keeps at most MaxLive live rows
// per user by soft-deleting the oldest.
type Repo interface {
	List(ctx context.Context, userID string) ([]Entry, error)
	Save(ctx context.Context, userID string, in SaveInput) error
	Delete(ctx context.Context, userID, resumeID string) error
	Restore(ctx context.Context, userID, resumeID string) error
}
