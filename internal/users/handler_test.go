package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Error string `json:"error"`
}

func newTestRouter(t *testing.T, userID string) (*gin.Engine, *Service, *auth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	svc := newTestService()
	h := NewHandler(svc, signer)

	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/api"))
	h.RegisterRoutes(r.Group("/api", func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}))
	return r, svc, signer
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeAuth(t *testing.T, resp *httptest.ResponseRecorder) authResponse {
	t.Helper()
	var out authResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v (%s)", err, resp.Body.String())
	}
	return out
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	r, _, signer := newTestRouter(t, "")

	resp := postJSON(r, "/api/auth/register", `{"email":"dev@example.com","password":"s3cret-pass","name":"Dev"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	out := decodeAuth(t, resp)
	if out.User.Email != "dev@example.com" || out.User.ID == "" {
		t.Fatalf("unexpected user %+v", out.User)
	}
	claims, err := signer.Verify(out.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != out.User.ID {
		t.Fatalf("expected subject %s, got %s", out.User.ID, claims.Subject)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("password")) {
		t.Fatalf("password hash leaked: %s", resp.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := newTestRouter(t, "")

	cases := []string{
		`{"email":"not-an-email","password":"s3cret-pass"}`,
		`{"email":"dev@example.com","password":"short"}`,
		`{"email":"dev@example.com"}`,
		`{broken`,
	}
	for _, body := range cases {
		resp := postJSON(r, "/api/auth/register", body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
		if decodeAuth(t, resp).Error == "" {
			t.Fatalf("%s: expected error message", body)
		}
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	r, _, _ := newTestRouter(t, "")
	body := `{"email":"dev@example.com","password":"s3cret-pass"}`
	if resp := postJSON(r, "/api/auth/register", body); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	resp := postJSON(r, "/api/auth/register", body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestLogin(t *testing.T) {
	r, svc, _ := newTestRouter(t, "")
	if _, err := svc.Register(t.Context(), "dev@example.com", "s3cret-pass", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp := postJSON(r, "/api/auth/login", `{"email":"dev@example.com","password":"s3cret-pass"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if decodeAuth(t, resp).Token == "" {
		t.Fatalf("expected token")
	}

	resp = postJSON(r, "/api/auth/login", `{"email":"dev@example.com","password":"wrong-pass"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if got := decodeAuth(t, resp).Error; got != "invalid email or password" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService()
	user, err := svc.Register(t.Context(), "dev@example.com", "s3cret-pass", "Dev")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	signer, _ := auth.NewSigner("test-secret", time.Hour, "test")
	h := NewHandler(svc, signer)

	for _, tc := range []struct {
		userID string
		status int
	}{
		{user.ID, http.StatusOK},
		{"deleted-user", http.StatusUnauthorized},
	} {
		r := gin.New()
		h.RegisterRoutes(r.Group("/api", func(c *gin.Context) {
			c.Set("userId", tc.userID)
			c.Next()
		}))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		if resp.Code != tc.status {
			t.Fatalf("user %s: expected %d, got %d", tc.userID, tc.status, resp.Code)
		}
		if tc.status == http.StatusOK {
			var out struct {
				Data struct {
					Email string `json:"email"`
				} `json:"data"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Data.Email != "dev@example.com" {
				t.Fatalf("unexpected body %s", resp.Body.String())
			}
		}
	}
}
