package blobstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs as plain files in a single directory. Content type is
// carried by the file extension.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory when missing and returns the store.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrKeyNotFound
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FSStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("blobstore: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("blobstore: write %s: %w", key, err)
	}
	return f.Close()
}

func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrKeyNotFound
		}
		return nil, "", fmt.Errorf("blobstore: open %s: %w", key, err)
	}
	return f, contentTypeByExt(key), nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("blobstore: remove %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("blobstore: read dir: %w", err)
	}
	objects := []Object{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		obj := Object{Key: entry.Name(), ContentType: contentTypeByExt(entry.Name())}
		if info, err := entry.Info(); err == nil {
			obj.Size = info.Size()
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func contentTypeByExt(key string) string {
	return mime.TypeByExtension(filepath.Ext(key))
}
