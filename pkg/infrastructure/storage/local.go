package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore maps bucket/object onto Root/bucket/object on disk. An empty
// bucket writes directly under Root.
type LocalStore struct {
	Root string
}

func (s *LocalStore) path(bucket, object string) string {
	return filepath.Join(s.Root, bucket, filepath.FromSlash(object))
}

func (s *LocalStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	p := s.path(bucket, object)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	return os.ReadFile(s.path(bucket, object))
}
