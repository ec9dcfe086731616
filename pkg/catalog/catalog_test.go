package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

const sample = `[
  {"id": 101, "name": "Bench Press", "exercise_type": 1, "image_name": "bench.png"},
  {"id": "sq-1", "name": "Back Squat", "exercise_type": "weight_reps"},
  {"id": 7, "name": "Deadlift"}
]`

func TestLoadFromReader(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(sample), "inline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	if got := c.Names(); got[0] != "Bench Press" || got[1] != "Back Squat" || got[2] != "Deadlift" {
		t.Errorf("catalog order not preserved: %v", got)
	}

	e, ok := c.ByID("101")
	if !ok || e.Name != "Bench Press" || e.ImageName != "bench.png" || e.ExerciseType.String() != "1" {
		t.Errorf("ByID(101) = %+v, %v", e, ok)
	}
	if _, ok := c.ByID("sq-1"); !ok {
		t.Error("string ids should be indexed")
	}
	if c.Entry(2).ImageName != "" {
		t.Error("missing image_name should default to empty")
	}
}

func TestLoadFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperrors.ErrorCode
	}{
		{"invalid json", `[{"id": 1,`, apperrors.CodeCatalogLoad},
		{"not an array", `{"id": 1, "name": "x"}`, apperrors.CodeCatalogLoad},
		{"missing id", `[{"name": "Row"}]`, apperrors.CodeCatalogInvalid},
		{"empty id", `[{"id": "", "name": "Row"}]`, apperrors.CodeCatalogInvalid},
		{"missing name", `[{"id": 1}]`, apperrors.CodeCatalogInvalid},
		{"one bad record fails all", `[{"id": 1, "name": "Row"}, {"id": 2}]`, apperrors.CodeCatalogInvalid},
		{"duplicate name", `[{"id": 1, "name": "Row"}, {"id": 2, "name": "Row"}]`, apperrors.CodeCatalogInvalid},
		{"duplicate id", `[{"id": 1, "name": "Row"}, {"id": 1, "name": "Pull"}]`, apperrors.CodeCatalogInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadFromReader(strings.NewReader(tt.body), "inline")
			if err == nil {
				t.Fatalf("expected error, got catalog with %d entries", c.Len())
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exercises.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Source() != path {
		t.Errorf("Source = %q", c.Source())
	}

	_, err = Load(filepath.Join(dir, "missing.json"))
	if apperrors.GetCode(err) != apperrors.CodeCatalogLoad {
		t.Errorf("missing file: got %v", err)
	}
}

type fakeReader struct {
	objects map[string][]byte
}

func (f *fakeReader) Read(_ context.Context, bucket, object string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, fmt.Errorf("object not found")
	}
	return data, nil
}

func TestLoadFromStore(t *testing.T) {
	store := &fakeReader{objects: map[string][]byte{"catalogs/v1/exercises.json": []byte(sample)}}

	c, err := LoadFromStore(context.Background(), store, "gs://catalogs/v1/exercises.json")
	if err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d", c.Len())
	}

	for _, uri := range []string{"gs://catalogs/v1/missing.json", "gs://bucket-only", "/local/path.json"} {
		if _, err := LoadFromStore(context.Background(), store, uri); apperrors.GetCode(err) != apperrors.CodeCatalogLoad {
			t.Errorf("%s: expected CATALOG_LOAD_FAILED, got %v", uri, err)
		}
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(sample), "inline")
	if err != nil {
		t.Fatal(err)
	}
	entries := c.Entries()
	entries[0].Name = "mutated"
	if c.Entry(0).Name != "Bench Press" {
		t.Error("Entries must not expose internal storage")
	}
}
