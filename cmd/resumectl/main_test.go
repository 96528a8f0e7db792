package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/kv"
	"resume-builder/internal/resumecache"
	"resume-builder/internal/shared/config"
)

const testPassword = "correct-horse-battery"

type harness struct {
	t        *testing.T
	apiURL   string
	stateDir string

	// intercept, when set, may answer a request instead of the API.
	intercept func(w http.ResponseWriter, r *http.Request) bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Env:                    "test",
		CORSAllowOrigin:        []string{"http://localhost:3000"},
		JWTTTL:                 time.Hour,
		BcryptCost:             4,
		LLMProvider:            "none",
		LLMTimeout:             time.Second,
		TransformUsageLimit:    4,
		AISuggestionUsageLimit: 10,
		AISuggestionWindow:     24 * time.Hour,
		LLMRateLimitPerMinute:  10,
		LLMRateLimitBurst:      5,
		MaxUploadBytes:         1 << 20,
		ObjectStoreType:        "local",
		LocalStoreDir:          t.TempDir(),
	}
	app, err := bootstrap.Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	h := &harness{t: t, stateDir: t.TempDir()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.intercept != nil && h.intercept(w, r) {
			return
		}
		app.Router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	h.apiURL = srv.URL

	prevTerminal := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = prevTerminal })

	return h
}

// failDuring answers method with 503 after recording the cached list the CLI
// had persisted at that moment.
func (h *harness) failDuring(method string, seen *string) {
	mirror, err := kv.NewFile(h.stateDir)
	require.NoError(h.t, err)
	h.intercept = func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method != method || r.URL.Path != "/api/past-resumes" {
			return false
		}
		*seen, _, _ = mirror.Get(resumecache.MirrorKey)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"maintenance"}`)
		return true
	}
}

func (h *harness) cachedList() string {
	h.t.Helper()
	mirror, err := kv.NewFile(h.stateDir)
	require.NoError(h.t, err)
	raw, _, err := mirror.Get(resumecache.MirrorKey)
	require.NoError(h.t, err)
	return raw
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--api", h.apiURL, "--state-dir", h.stateDir}, args...))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, "resumectl %s", strings.Join(args, " "))
	return out
}

func TestSaveListLoadDeleteRestore(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com", "--name", "Dev")
	assert.Contains(t, out, "Signed in as dev@example.com")

	h.mustRun("", "title", "Backend", "Engineer")
	out = h.mustRun("", "save")
	require.True(t, strings.HasPrefix(out, "Saved "))
	resumeID := strings.TrimSpace(strings.TrimPrefix(out, "Saved "))
	require.NotEmpty(t, resumeID)

	out = h.mustRun("", "list")
	assert.Contains(t, out, resumeID)
	assert.Contains(t, out, "Backend Engineer")

	h.mustRun("", "new")
	out = h.mustRun("", "show")
	assert.NotContains(t, out, "Backend Engineer")
	assert.Contains(t, out, `"resumeId": ""`)

	out = h.mustRun("", "load", resumeID)
	assert.Contains(t, out, `Loaded "Backend Engineer"`)
	out = h.mustRun("", "show")
	assert.Contains(t, out, resumeID)

	h.mustRun("", "delete", resumeID)
	out = h.mustRun("", "list")
	assert.Contains(t, out, "No saved resumes")

	h.mustRun("", "restore", resumeID)
	out = h.mustRun("", "list", "--refresh")
	assert.Contains(t, out, resumeID)
}

func TestSaveTwiceKeepsOneEntry(t *testing.T) {
	h := newHarness(t)
	h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com")

	first := h.mustRun("", "save")
	h.mustRun("", "title", "Renamed")
	second := h.mustRun("", "save")
	assert.Equal(t, first, second)

	out := h.mustRun("", "list", "--refresh")
	assert.Equal(t, 1, strings.Count(out, strings.TrimSpace(strings.TrimPrefix(first, "Saved "))))
	assert.Contains(t, out, "Renamed")
}

func TestDeleteUpdatesCacheFirstAndRevertsOnFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com")
	out := h.mustRun("", "save")
	resumeID := strings.TrimSpace(strings.TrimPrefix(out, "Saved "))
	require.Contains(t, h.cachedList(), resumeID)

	var during string
	h.failDuring(http.MethodDelete, &during)
	_, err := h.run("", "delete", resumeID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance")

	assert.NotContains(t, during, resumeID)
	assert.Contains(t, h.cachedList(), resumeID)
}

func TestSaveUpdatesCacheFirstAndRevertsOnFailure(t *testing.T) {
	h := newHarness(t)
	h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com")
	h.mustRun("", "save")
	h.mustRun("", "title", "Staff", "Engineer")

	var during string
	h.failDuring(http.MethodPost, &during)
	_, err := h.run("", "save")
	require.Error(t, err)

	assert.Contains(t, during, "Staff Engineer")
	assert.NotContains(t, h.cachedList(), "Staff Engineer")
}

func TestLoginAfterLogout(t *testing.T) {
	h := newHarness(t)
	h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com")
	h.mustRun("", "logout")

	_, err := h.run("", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	_, err = h.run("wrong-password\n", "login", "--email", "dev@example.com")
	require.Error(t, err)

	out := h.mustRun(testPassword+"\n", "login", "--email", "dev@example.com")
	assert.Contains(t, out, "Signed in as dev@example.com")
	out = h.mustRun("", "whoami")
	assert.Contains(t, out, "dev@example.com")
}

func TestImportSanitizesInput(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(`{"title":"Imported","socialHandles":"oops","skills":{"title":7}}`, "import", "-")
	assert.Contains(t, out, `Imported "Imported"`)

	out = h.mustRun("", "show")
	assert.Contains(t, out, `"socialHandles": []`)
	assert.Contains(t, out, `"title": "7"`)

	_, err := h.run(`[1,2,3]`, "import", "-")
	assert.Error(t, err)
}

func TestUsageStartsAtZero(t *testing.T) {
	h := newHarness(t)
	h.mustRun(testPassword+"\n", "register", "--email", "dev@example.com")

	out := h.mustRun("", "usage")
	assert.Contains(t, out, "ai suggestions\t0/10")
	assert.Contains(t, out, "transform\t0/4")
}

func TestPromptPasswordUsesTerminal(t *testing.T) {
	prevTerminal, prevRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = prevTerminal, prevRead })
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("from-tty"), nil }

	cmd := newRootCmd()
	cmd.SetErr(io.Discard)
	pw, err := promptPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "from-tty", pw)
}
