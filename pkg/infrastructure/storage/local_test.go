package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s := &LocalStore{Root: root}
	ctx := context.Background()

	if err := s.Write(ctx, "artifacts", "plan/result-1.json", []byte(`{"weeks":[]}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "artifacts", "plan", "result-1.json")); err != nil {
		t.Errorf("file not written where expected: %v", err)
	}
	got, err := s.Read(ctx, "artifacts", "plan/result-1.json")
	if err != nil || string(got) != `{"weeks":[]}` {
		t.Errorf("Read = %q, %v", got, err)
	}
}

func TestLocalStore_MissingIsNotExist(t *testing.T) {
	s := &LocalStore{Root: t.TempDir()}
	_, err := s.Read(context.Background(), "", "result-9.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
