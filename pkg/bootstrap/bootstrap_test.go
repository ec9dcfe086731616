package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ripixel/fitglue-importer/pkg/infrastructure/database"
	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(envOf(nil))
	if cfg.CatalogPath != "data/exercises.json" || cfg.EmbeddingProvider != "gemini" {
		t.Errorf("paths = %+v", cfg)
	}
	if cfg.AliasThreshold != 95 || cfg.WorkerCount != 4 || cfg.MinSimilarity != 0 {
		t.Errorf("numbers = %+v", cfg)
	}
	if cfg.EnablePublish || cfg.EnableRunRecords {
		t.Error("publish and run records must be off by default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadConfig(envOf(map[string]string{
		"ALIAS_THRESHOLD":    "90",
		"MIN_SIMILARITY":     "0.35",
		"WORKER_COUNT":       "nope",
		"ENABLE_PUBLISH":     "true",
		"CATALOG_PATH":       "gs://b/exercises.json",
		"EMBEDDING_PROVIDER": "hashing",
	}))
	if cfg.AliasThreshold != 90 || cfg.MinSimilarity != 0.35 {
		t.Errorf("overrides = %+v", cfg)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("invalid WORKER_COUNT should fall back, got %d", cfg.WorkerCount)
	}
	if !cfg.EnablePublish || !cfg.usesGCS() {
		t.Errorf("flags = %+v", cfg)
	}
}

func TestComponentHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ComponentHandler{Handler: slog.NewJSONHandler(&buf, GetSlogHandlerOptions(slog.LevelInfo))})

	logger.With("component", "mapper").Info("Mapped day", "day", "Day 1")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatal(err)
	}
	if line["message"] != "[mapper] Mapped day" || line["severity"] != "INFO" {
		t.Errorf("line = %v", line)
	}
	if _, ok := line["component"]; ok {
		t.Error("component attribute should be folded into the message")
	}
	if line["day"] != "Day 1" {
		t.Errorf("attrs lost: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug || ParseLevel("") != slog.LevelInfo || ParseLevel("warn") != slog.LevelWarn {
		t.Error("unexpected level mapping")
	}
}

type staticSecrets map[string]string

func (s staticSecrets) GetSecret(_ context.Context, _, name string) (string, error) { return s[name], nil }

func TestNewEngine_Hashing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exercises.json")
	entries := []map[string]interface{}{
		{"id": 1, "name": "Barbell Bench Press", "exercise_type": 1, "image_name": "bench.png"},
		{"id": 2, "name": "Barbell Back Squat", "exercise_type": 1, "image_name": "squat.png"},
	}
	data, _ := json.Marshal(entries)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	svc := &Service{
		DB:      database.NewLogDatabase(),
		Secrets: staticSecrets{},
		Config:  &Config{CatalogPath: path, EmbeddingProvider: "hashing", AliasThreshold: 95},
	}
	engine, cat, err := svc.NewEngine(context.Background())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("catalog len = %d", cat.Len())
	}
	got, err := engine.Reconcile(context.Background(), workout.RawExerciseEntry{ExerciseName: "Barbell Back Squat"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.ExerciseName, "Squat") {
		t.Errorf("matched %q", got.ExerciseName)
	}
}

func TestLoadCatalog_GCSWithoutStorage(t *testing.T) {
	svc := &Service{Config: &Config{CatalogPath: "gs://b/o.json"}}
	if _, err := svc.LoadCatalog(context.Background()); err == nil {
		t.Error("expected error without an object store")
	}
}
