// Package transform converts free-text resumes into structured documents.
package transform

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/usage"
)

// MaxInputChars bounds the text sent to the model.
const MaxInputChars = 60000

// Service runs the gated transform pipeline.
type Service struct {
	Usage   *usage.Service
	LLM     llm.Client
	Store   object.Store
	Timeout time.Duration
}

func NewService(usageSvc *usage.Service, client llm.Client, store object.Store, timeout time.Duration) *Service {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &Service{Usage: usageSvc, LLM: client, Store: store, Timeout: timeout}
}

// Transform asks the model to structure text. The counter only moves when
// the answer parses into a document.
func (s *Service) Transform(ctx context.Context, userID, text string) (resume.Document, usage.Counter, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return resume.Document{}, usage.Counter{}, ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > MaxInputChars {
		return resume.Document{}, usage.Counter{}, ErrInputTooLarge
	}
	req := llm.TransformRequest(text)

	var doc resume.Document
	_, counter, err := usage.Run(ctx, s.Usage, userID, usage.FeatureTransform, s.Timeout,
		func(ctx context.Context) (string, error) {
			return s.LLM.Complete(ctx, req)
		},
		func(raw string) error {
			parsed, err := resume.ParseUntrusted([]byte(llm.CleanJSON(raw)))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUnparseable, err)
			}
			doc = parsed
			return nil
		},
	)
	if err != nil {
		return resume.Document{}, counter, err
	}
	return doc, counter, nil
}

// TransformUpload stores the original file, extracts its text and runs Transform.
func (s *Service) TransformUpload(ctx context.Context, userID, fileName string, body []byte, declaredType string) (resume.Document, usage.Counter, error) {
	if s.Store == nil {
		return resume.Document{}, usage.Counter{}, fmt.Errorf("object store not configured")
	}
	obj, err := s.Store.Put(ctx, userID, fileName, bytes.NewReader(body))
	if err != nil {
		return resume.Document{}, usage.Counter{}, fmt.Errorf("store upload: %w", err)
	}
	contentType := obj.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = declaredType
	}
	telemetry.Info("transform.upload_stored", map[string]any{
		"user_id":      userID,
		"key":          obj.Key,
		"size":         obj.Size,
		"content_type": contentType,
	})

	text, err := extract.FromStore(ctx, s.Store, obj.Key, contentType, fileName)
	if err != nil {
		return resume.Document{}, usage.Counter{}, err
	}
	return s.Transform(ctx, userID, text)
}

// Report returns the caller's transform counter.
func (s *Service) Report(ctx context.Context, userID string) (usage.Report, error) {
	return s.Usage.Report(ctx, userID, usage.FeatureTransform)
}
