package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"resume-builder/internal/shared/util"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
	headers map[string]http.Header
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.headers[r.URL.Path] = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, prefix, kmsKeyID string) (*Store, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string]string{}, headers: map[string]http.Header{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test", SecretAccessKey: "test"}, nil
		}),
	})
	return newStore(client, "cvs", prefix, kmsKeyID), bucket
}

func TestPutWritesUnderUserPrefix(t *testing.T) {
	store, bucket := newTestStore(t, "/uploads/", "")

	obj, err := store.Put(context.Background(), "user-1", "cv.pdf", strings.NewReader("%PDF-1.7 resume body"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if obj.Size != int64(len("%PDF-1.7 resume body")) {
		t.Fatalf("unexpected size %d", obj.Size)
	}
	if !strings.HasPrefix(obj.Key, util.HashUserKey("user-1")+"/") || !strings.HasSuffix(obj.Key, "_cv.pdf") {
		t.Fatalf("unexpected key %q", obj.Key)
	}

	path := "/cvs/uploads/" + obj.Key
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	body, ok := bucket.objects[path]
	if !ok {
		t.Fatalf("expected object at %s, have %v", path, bucket.objects)
	}
	if !strings.Contains(body, "resume body") {
		t.Fatalf("unexpected body %q", body)
	}
	if got := bucket.headers[path].Get("X-Amz-Server-Side-Encryption"); got != "AES256" {
		t.Fatalf("expected AES256 encryption, got %q", got)
	}
}

func TestPutUsesKMSKeyWhenConfigured(t *testing.T) {
	store, bucket := newTestStore(t, "", "kms-key-1")

	obj, err := store.Put(context.Background(), "user-1", "cv.docx", strings.NewReader("PK docx bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	h := bucket.headers["/cvs/"+obj.Key]
	if h.Get("X-Amz-Server-Side-Encryption") != "aws:kms" || h.Get("X-Amz-Server-Side-Encryption-Aws-Kms-Key-Id") != "kms-key-1" {
		t.Fatalf("unexpected encryption headers %v", h)
	}
}

func TestPutRejectsTraversalNames(t *testing.T) {
	store, _ := newTestStore(t, "", "")
	if _, err := store.Put(context.Background(), "user-1", "../../etc/passwd", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal name")
	}
}

func TestOpenReadsPrefixedKey(t *testing.T) {
	store, bucket := newTestStore(t, "uploads", "")
	bucket.objects["/cvs/uploads/abc/1_cv.pdf"] = "stored bytes"

	rc, err := store.Open(context.Background(), "abc/1_cv.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "stored bytes" {
		t.Fatalf("unexpected body %q", got)
	}

	if _, err := store.Open(context.Background(), "abc/missing.pdf"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", "", "", ""); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestApplyPrefix(t *testing.T) {
	cases := []struct {
		prefix, key, want string
	}{
		{"", "user/file.pdf", "user/file.pdf"},
		{"root", "/user/file.pdf", "root/user/file.pdf"},
		{"root/sub", "user/file.pdf", "root/sub/user/file.pdf"},
		{"root", "", "root"},
	}
	for _, tc := range cases {
		if got := applyPrefix(tc.prefix, tc.key); got != tc.want {
			t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
		}
	}
}
