package suggestions

import (
	"context"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/usage"
)

// Service produces gated description rewrites.
type Service struct {
	Usage   *usage.Service
	LLM     llm.Client
	Timeout time.Duration
}

func NewService(usageSvc *usage.Service, client llm.Client, timeout time.Duration) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Service{Usage: usageSvc, LLM: client, Timeout: timeout}
}

// Suggest rewrites in.Description into three variants. Input is validated
// before the usage counter is read; the counter only moves when the model
// returns a well-formed answer.
func (s *Service) Suggest(ctx context.Context, userID string, in Input) (Result, error) {
	if strings.TrimSpace(in.Description) == "" {
		return Result{}, ErrInvalidInput
	}
	req := llm.SuggestionsRequest(in.Description, in.JobRole, in.CompanyName)

	var parsed []string
	_, counter, err := usage.Run(ctx, s.Usage, userID, usage.FeatureAISuggestions, s.Timeout,
		func(ctx context.Context) (string, error) {
			return s.LLM.Complete(ctx, req)
		},
		func(raw string) error {
			out, err := parseResponse(raw)
			parsed = out
			return err
		},
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Suggestions: parsed, UsageCount: counter.Count}, nil
}

// Report returns the caller's suggestion counter.
func (s *Service) Report(ctx context.Context, userID string) (usage.Report, error) {
	return s.Usage.Report(ctx, userID, usage.FeatureAISuggestions)
}
