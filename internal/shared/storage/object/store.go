// Package object stores uploaded CV originals.
package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"resume-builder/internal/shared/util"
)

// Object describes a stored upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// Store saves and retrieves uploaded files.
type Store interface {
	Put(ctx context.Context, userID, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey builds a per-user key of the form <sha256(user)>/<uuid>_<name>.
func NewKey(userID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashUserKey(userID), uuid.NewString()+"_"+name), nil
}

// Sniff reads up to 512 bytes to detect the content type and returns a
// reader that replays them ahead of the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	ct := http.DetectContentType(head[:n])
	return ct, io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
