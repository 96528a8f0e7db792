// Package apiclient is a typed client for the resume builder HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"resume-builder/internal/history"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/timeout"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx response carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: http status %d", e.Status)
	}
	return e.Message
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one API base URL. Register and Login replace the token.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string { return c.token }

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

// Register creates an account and keeps the issued token.
func (c *Client) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, &out)
	if err == nil {
		c.token = out.Token
	}
	return out, err
}

// Login signs in and keeps the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err == nil {
		c.token = out.Token
	}
	return out, err
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (users.User, error) {
	var out struct {
		Data users.User `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &out)
	return out.Data, err
}

// ListResumes returns the live saved resumes.
func (c *Client) ListResumes(ctx context.Context) ([]history.Entry, error) {
	return c.history(ctx, http.MethodGet, nil)
}

// SaveResume upserts resumeID with data. rowID may be empty.
func (c *Client) SaveResume(ctx context.Context, resumeID, data, rowID string) ([]history.Entry, error) {
	body := map[string]string{"resumeId": resumeID, "data": data}
	if rowID != "" {
		body["rowId"] = rowID
	}
	return c.history(ctx, http.MethodPost, body)
}

// DeleteResume soft-deletes resumeID.
func (c *Client) DeleteResume(ctx context.Context, resumeID string) ([]history.Entry, error) {
	return c.history(ctx, http.MethodDelete, map[string]string{"resumeId": resumeID})
}

// RestoreResume undoes a soft delete of resumeID.
func (c *Client) RestoreResume(ctx context.Context, resumeID string) ([]history.Entry, error) {
	return c.history(ctx, http.MethodPatch, map[string]string{"resumeId": resumeID})
}

func (c *Client) history(ctx context.Context, method string, body any) ([]history.Entry, error) {
	var out struct {
		Data []history.Entry `json:"data"`
	}
	if err := c.do(ctx, method, "/api/past-resumes", body, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []history.Entry{}
	}
	return out.Data, nil
}

// SuggestInput mirrors the POST /api/ai-suggestions body.
type SuggestInput struct {
	Description string `json:"description"`
	JobRole     string `json:"jobRole,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// Suggestions is the POST /api/ai-suggestions reply.
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
	UsageCount  int      `json:"usageCount"`
}

func (c *Client) Suggest(ctx context.Context, in SuggestInput) (Suggestions, error) {
	var out Suggestions
	err := c.do(ctx, http.MethodPost, "/api/ai-suggestions", in, &out)
	return out, err
}

func (c *Client) SuggestionUsage(ctx context.Context) (usage.Report, error) {
	var out usage.Report
	err := c.do(ctx, http.MethodGet, "/api/ai-suggestions", nil, &out)
	return out, err
}

func (c *Client) TransformUsage(ctx context.Context) (usage.Report, error) {
	var out usage.Report
	err := c.do(ctx, http.MethodGet, "/api/transform-pdf-string", nil, &out)
	return out, err
}

// Transform structures free text into a document.
func (c *Client) Transform(ctx context.Context, text string) (resume.Document, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/transform-pdf-string", map[string]string{"input": text}, &out); err != nil {
		return resume.Document{}, err
	}
	return resume.ParseUntrusted(out.Data)
}

// TransformFile uploads a PDF or DOCX and returns the structured document.
func (c *Client) TransformFile(ctx context.Context, fileName string, r io.Reader) (resume.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return resume.Document{}, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return resume.Document{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return resume.Document{}, err
	}

	req, err := c.newRequest(http.MethodPost, "/api/transform-pdf", &buf, mw.FormDataContentType())
	if err != nil {
		return resume.Document{}, err
	}
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.send(ctx, req, &out); err != nil {
		return resume.Document{}, err
	}
	return resume.ParseUntrusted(out.Data)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	req, err := c.newRequest(method, path, reader, contentType)
	if err != nil {
		return err
	}
	return c.send(ctx, req, out)
}

func (c *Client) newRequest(method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := timeout.Fetch(ctx, c.httpClient, req, c.timeout)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
