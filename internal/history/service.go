package history

import (
	"context"
	"encoding/json"
	"strings"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Service validates history writes and returns the refreshed list after each.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns the user's live saved resumes, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.Repo.List(ctx, userID)
}

// Save upserts the resume and returns the live list.
func (s *Service) Save(ctx context.Context, userID string, in SaveInput) ([]Entry, error) {
	in.ResumeID = strings.TrimSpace(in.ResumeID)
	in.RowID = strings.TrimSpace(in.RowID)
	if in.ResumeID == "" || !isJSONObject(in.Data) {
		return nil, ErrInvalidInput
	}
	if err := s.Repo.Save(ctx, userID, in); err != nil {
		return nil, err
	}
	metrics.IncResumeWrite("save")
	telemetry.Info("history.saved", map[string]any{"user_id": userID, "resume_id": in.ResumeID})
	return s.Repo.List(ctx, userID)
}

// Delete soft-deletes the resume and returns the live list.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) ([]Entry, error) {
	resumeID = strings.TrimSpace(resumeID)
	if resumeID == "" {
		return nil, ErrInvalidInput
	}
	if err := s.Repo.Delete(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	metrics.IncResumeWrite("delete")
	return s.Repo.List(ctx, userID)
}

// Restore revives a soft-deleted resume and returns the live list.
func (s *Service) Restore(ctx context.Context, userID, resumeID string) ([]Entry, error) {
	resumeID = strings.TrimSpace(resumeID)
	if resumeID == "" {
		return nil, ErrInvalidInput
	}
	if err := s.Repo.Restore(ctx, userID, resumeID); err != nil {
		return nil, err
	}
	metrics.IncResumeWrite("restore")
	return s.Repo.List(ctx, userID)
}

func isJSONObject(s string) bool {
	var v map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &v) == nil && v != nil
}
