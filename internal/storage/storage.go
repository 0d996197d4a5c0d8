// Package storage persists uploaded payment-proof files and hands back a
// publicly fetchable URL for them.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Store interface {
	// Save writes the file under the given relative path and returns its
	// public URL.
	Save(rel string, r io.Reader) (string, error)
}

// LocalStore keeps files under the media dir, served by the /media route.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(rel string, r io.Reader) (string, error) {
	clean := filepath.Clean(rel)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path %q", rel)
	}
	full := filepath.Join(s.Dir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", err
	}
	return s.BaseURL + "/media/" + filepath.ToSlash(clean), nil
}
