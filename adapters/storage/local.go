package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clinicsetup/ports"

	"github.com/google/uuid"
)

// LocalUploadStore implements ports.UploadStore on the local filesystem.
// Objects are keyed <namespace>/<uuid>-<filename> and addressed by file://
// URLs.
type LocalUploadStore struct {
	basePath string
}

var _ ports.UploadStore = (*LocalUploadStore)(nil)

// NewLocalUploadStore creates the base directory if needed.
func NewLocalUploadStore(basePath string) (*LocalUploadStore, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalUploadStore{basePath: abs}, nil
}

// Put stores data under a fresh key in namespace.
func (s *LocalUploadStore) Put(ctx context.Context, namespace, filename string, data []byte) (*ports.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := sanitizeNamespace(namespace) + "/" + uuid.NewString() + "-" + sanitizeSegment(filepath.Base(filename))
	filePath := s.keyToPath(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filePath)}
	return &ports.StoredObject{URL: u.String(), Path: key}, nil
}

// Fetch reads back an object by the URL returned from Put.
func (s *LocalUploadStore) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath, err := s.urlToPath(rawURL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("upload not found: %s", rawURL)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// Delete removes an object by URL. Missing objects are not an error.
func (s *LocalUploadStore) Delete(ctx context.Context, rawURL string) error {
	filePath, err := s.urlToPath(rawURL)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}
	return nil
}

// CleanupExpired removes uploads last modified before now minus olderThan
// and reports how many were removed.
func (s *LocalUploadStore) CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove expired file %s: %w", path, err)
		}
		removed++
		return nil
	})
	return removed, err
}

func (s *LocalUploadStore) keyToPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

// urlToPath resolves a file:// URL and rejects paths outside the store.
func (s *LocalUploadStore) urlToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid upload URL %q: %w", rawURL, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported upload URL scheme %q", u.Scheme)
	}
	filePath := filepath.Clean(filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(s.basePath, filePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("upload URL %q is outside the store", rawURL)
	}
	return filePath, nil
}

// sanitizeNamespace keeps "/" as a directory separator and cleans each
// segment.
func sanitizeNamespace(ns string) string {
	parts := strings.Split(strings.Trim(ns, "/"), "/")
	for i, p := range parts {
		parts[i] = sanitizeSegment(p)
	}
	return strings.Join(parts, "/")
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '\x00':
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
