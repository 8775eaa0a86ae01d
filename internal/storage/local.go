package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under a directory served as static content.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore stores files in dir and builds URLs as baseURL + "/" + key.
// An empty baseURL yields site-relative URLs ("/uploads/...").
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalStore) Put(key string, r io.Reader, contentType string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) Delete(key string) error {
	return os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
}
