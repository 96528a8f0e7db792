package transform

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/resume"
	"resume-builder/internal/shared/storage/object/local"
	"resume-builder/internal/usage"
)

type fakeLLM struct {
	reply  string
	err    error
	delay  time.Duration
	calls  int
	prompt string
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.calls++
	f.prompt = req.Prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

const modelReply = `{"title":"Ada Lovelace","workExperience":{"title":"Work","experience":[{"company":"Engines","description":"Wrote programs"}]}}`

func newTestRouter(t *testing.T, client llm.Client, policy usage.Policy, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	usageSvc := usage.NewService(usage.NewMemoryStore(time.Now), policy)
	svc := NewService(usageSvc, client, local.New(t.TempDir()), 50*time.Millisecond)
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc, maxUpload).RegisterRoutes(api)
	return r
}

func postText(r *gin.Engine, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/transform-pdf-string", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func usageCount(t *testing.T, r *gin.Engine) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/transform-pdf-string", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	var rep usage.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode usage: %v", err)
	}
	return rep.UsageCount
}

func TestTransformAcceptsAllBodyShapes(t *testing.T) {
	bodies := []struct {
		contentType string
		body        string
	}{
		{"application/json", `"Ada Lovelace, engineer"`},
		{"application/json", `{"input":"Ada Lovelace, engineer"}`},
		{"text/plain", "Ada Lovelace, engineer"},
	}
	for _, b := range bodies {
		client := &fakeLLM{reply: modelReply}
		r := newTestRouter(t, client, nil, 0)
		resp := postText(r, b.contentType, b.body)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", b.body, resp.Code, resp.Body.String())
		}
		var payload struct {
			Data resume.Document `json:"data"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Data.Title != "Ada Lovelace" {
			t.Fatalf("unexpected title %q", payload.Data.Title)
		}
		exp := payload.Data.WorkExperience.Experience
		if len(exp) != 1 || len(exp[0].Description) != 1 || payload.Data.Projects.Projects == nil {
			t.Fatalf("expected sanitized document, got %+v", payload.Data)
		}
		if usageCount(t, r) != 1 {
			t.Fatalf("expected usage 1")
		}
	}
}

func TestTransformPlainTextStartingWithBraceIsRawText(t *testing.T) {
	text := `{Ada Lovelace} Analyst, "Engines" team`
	for _, body := range []string{text, `"Ada" Lovelace, engineer`} {
		client := &fakeLLM{reply: modelReply}
		r := newTestRouter(t, client, nil, 0)
		resp := postText(r, "text/plain", body)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", body, resp.Code, resp.Body.String())
		}
		if client.calls != 1 || !strings.Contains(client.prompt, body) {
			t.Fatalf("%s: expected raw text in prompt, got %q", body, client.prompt)
		}
	}

	r := newTestRouter(t, &fakeLLM{reply: modelReply}, nil, 0)
	if resp := postText(r, "application/json", text); resp.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON body: expected 400, got %d", resp.Code)
	}
}

func TestTransformEmptyInputSkipsUsage(t *testing.T) {
	client := &fakeLLM{reply: modelReply}
	r := newTestRouter(t, client, nil, 0)
	for _, body := range []string{`""`, `{"input":"   "}`} {
		if resp := postText(r, "application/json", body); resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
	}
	if resp := postText(r, "application/json", `{"other":1}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing input: expected 400, got %d", resp.Code)
	}
	if client.calls != 0 {
		t.Fatalf("LLM must not be called")
	}
}

func TestTransformFifthCallBlocked(t *testing.T) {
	client := &fakeLLM{reply: modelReply}
	r := newTestRouter(t, client, nil, 0)
	for i := 0; i < 4; i++ {
		if resp := postText(r, "text/plain", "cv"); resp.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := postText(r, "text/plain", "cv"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if client.calls != 4 {
		t.Fatalf("expected 4 LLM calls, got %d", client.calls)
	}
}

func TestTransformUpstreamFailuresNotCounted(t *testing.T) {
	cases := []struct {
		name   string
		client *fakeLLM
		status int
	}{
		{"not json", &fakeLLM{reply: "I cannot help"}, http.StatusUnprocessableEntity},
		{"array", &fakeLLM{reply: `[1,2]`}, http.StatusUnprocessableEntity},
		{"empty", &fakeLLM{err: llm.ErrEmptyResponse}, http.StatusBadGateway},
		{"timeout", &fakeLLM{reply: modelReply, delay: time.Second}, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, tc.client, nil, 0)
			resp := postText(r, "text/plain", "cv")
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, resp.Code, resp.Body.String())
			}
			if usageCount(t, r) != 0 {
				t.Fatalf("failed call must not be counted")
			}
		})
	}
}

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Ada Lovelace</w:t></w:r></w:p></w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		_, _ = w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func postUpload(t *testing.T, r *gin.Engine, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transform-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestTransformUploadDocx(t *testing.T) {
	client := &fakeLLM{reply: modelReply}
	r := newTestRouter(t, client, nil, 0)
	resp := postUpload(t, r, "cv.docx", docxBytes(t))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if !bytes.Contains([]byte(client.prompt), []byte("Ada Lovelace")) {
		t.Fatalf("expected extracted text in prompt, got %q", client.prompt)
	}
}

func TestTransformUploadRejections(t *testing.T) {
	client := &fakeLLM{reply: modelReply}
	r := newTestRouter(t, client, nil, 100)

	if resp := postUpload(t, r, "cv.txt", []byte("plain text")); resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.Code)
	}
	if resp := postUpload(t, r, "cv.pdf", bytes.Repeat([]byte("a"), 500)); resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
	if client.calls != 0 {
		t.Fatalf("LLM must not be called")
	}
}
