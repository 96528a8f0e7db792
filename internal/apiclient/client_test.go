package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/timeout"
)

func TestLoginStoresTokenAndSendsIt(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.co", body["email"])
			_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1","email":"a@b.co"}}`))
		case "/api/past-resumes":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"data":[{"rowId":"r","resumeId":"x","data":"{}","updatedAt":5}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	res, err := c.Login(context.Background(), "a@b.co", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "tok", c.Token())

	list, err := c.ListResumes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 5, list[0].UpdatedAt)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"You have reached the maximum of 4 resume transformations."}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Transform(context.Background(), "cv")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Contains(t, err.Error(), "maximum of 4")
}

func TestEmptyListDecodesToEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "x", body["resumeId"])
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	list, err := New(srv.URL, WithToken("t")).DeleteResume(context.Background(), "x")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTransformSanitizesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"title":"Ada"}}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).Transform(context.Background(), "cv")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc.Title)
	assert.NotNil(t, doc.Skills.Skills)
}

func TestTransformFileSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		assert.Equal(t, "cv.pdf", fh.Filename)
		_, _ = w.Write([]byte(`{"data":{"title":"From file"}}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).TransformFile(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "From file", doc.Title)
}

func TestRequestTimeoutIsTyped(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(30*time.Millisecond)).ListResumes(context.Background())
	assert.True(t, timeout.IsTimeout(err), "got %v", err)
}
