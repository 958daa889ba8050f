package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

// LocalStore writes artifacts below a directory on disk.
type LocalStore struct {
	root string
}

// NewLocalStore constructs a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifact dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Put writes data to the file named by key.
func (s *LocalStore) Put(_ context.Context, key string, data []byte) (transcript.StoredArtifact, error) {
	path, err := s.path(key)
	if err != nil {
		return transcript.StoredArtifact{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return transcript.StoredArtifact{}, fmt.Errorf("create artifact parent: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return transcript.StoredArtifact{}, fmt.Errorf("write artifact: %w", err)
	}
	return transcript.StoredArtifact{Key: key, Size: int64(len(data))}, nil
}

// Delete removes the file and any directories the key created that are now empty.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact: %w", err)
	}
	for dir := filepath.Dir(path); dir != filepath.Clean(s.root); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

// path maps key to a file under root, rejecting keys that escape it.
func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(key)))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

var _ transcript.ArtifactStore = (*LocalStore)(nil)
