// Package blobstore abstracts the object storage behind product images. The
// server deployment keeps blobs on the local filesystem; hosted deployments
// use an S3-compatible bucket. Both sit behind the same Store interface.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrKeyNotFound indicates the requested object does not exist.
var ErrKeyNotFound = errors.New("blobstore: key not found")

// Object describes one stored blob.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// Store is a flat key-value blob store. Operations are independent and
// idempotent on key; there is no cross-key atomicity.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Object, error)
}

// NewKey derives a collision-resistant storage key from an uploaded filename:
// millisecond timestamp, random base36 suffix, original extension preserved.
func NewKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !validExt(ext) {
		ext = ""
	}
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

func validExt(ext string) bool {
	if ext == "" || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return len(ext) > 1
}

// ValidKey rejects keys that could escape a directory-backed store.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, "/\\")
}
