package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"socialconnect/internal/middleware"
)

// localStore writes images under a directory served as static files.
type localStore struct {
	dir     string
	baseURL string
}

func newLocalStore(dir, baseURL string) (*localStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("media directory is required for the local backend")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &localStore{dir: dir, baseURL: baseURL}, nil
}

func (s *localStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	// Keys are generated internally but a path traversal here would be nasty,
	// so reject anything that escapes the media directory.
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		middleware.MediaUploads.WithLabelValues("local", "error").Inc()
		return "", fmt.Errorf("invalid media key %q", key)
	}

	dst := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		middleware.MediaUploads.WithLabelValues("local", "error").Inc()
		return "", fmt.Errorf("create media subdirectory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		middleware.MediaUploads.WithLabelValues("local", "error").Inc()
		return "", fmt.Errorf("write media file: %w", err)
	}

	middleware.MediaUploads.WithLabelValues("local", "ok").Inc()
	return joinURL(s.baseURL, clean), nil
}
