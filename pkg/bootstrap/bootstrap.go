package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"

	shared "github.com/ripixel/fitglue-importer/pkg"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/database"
	infrapubsub "github.com/ripixel/fitglue-importer/pkg/infrastructure/pubsub"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/secrets"
	infrastorage "github.com/ripixel/fitglue-importer/pkg/infrastructure/storage"
)

// Config holds standard configuration for all services
type Config struct {
	ProjectID string

	CatalogPath    string
	AliasTablePath string

	EmbeddingProvider string
	EmbeddingModel    string
	GeminiModel       string

	AliasThreshold int
	MinSimilarity  float32
	WorkerCount    int

	LyftaBaseURL string

	GCSArtifactBucket string
	LocalArtifactDir  string
	VectorCacheBucket string

	EnablePublish    bool
	EnableRunRecords bool
}

// Service holds initialized dependencies
type Service struct {
	DB      shared.Database
	Store   shared.BlobStore // week artifacts and FIT exports
	Objects shared.BlobStore // gs:// catalog and vector cache, nil when unused
	Pub     shared.Publisher
	Secrets shared.SecretStore
	Config  *Config
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	return &Config{
		ProjectID:         getenv("GOOGLE_CLOUD_PROJECT"),
		CatalogPath:       stringOr(getenv("CATALOG_PATH"), "data/exercises.json"),
		AliasTablePath:    getenv("ALIAS_TABLE_PATH"),
		EmbeddingProvider: stringOr(getenv("EMBEDDING_PROVIDER"), "gemini"),
		EmbeddingModel:    getenv("EMBEDDING_MODEL"),
		GeminiModel:       getenv("GEMINI_MODEL"),
		AliasThreshold:    intOr(getenv, "ALIAS_THRESHOLD", 95),
		MinSimilarity:     floatOr(getenv, "MIN_SIMILARITY", 0),
		WorkerCount:       intOr(getenv, "WORKER_COUNT", 4),
		LyftaBaseURL:      getenv("LYFTA_BASE_URL"),
		GCSArtifactBucket: getenv("GCS_ARTIFACT_BUCKET"),
		LocalArtifactDir:  stringOr(getenv("LOCAL_ARTIFACT_DIR"), "output"),
		VectorCacheBucket: getenv("VECTOR_CACHE_BUCKET"),
		EnablePublish:     getenv("ENABLE_PUBLISH") == "true",
		EnableRunRecords:  getenv("ENABLE_RUN_RECORDS") == "true",
	}
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(getenv func(string) string, key string, def int) int {
	raw := getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", raw)
		return def
	}
	return n
}

func floatOr(getenv func(string) string, key string, def float32) float32 {
	raw := getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		slog.Warn("Ignoring invalid number setting", "key", key, "value", raw)
		return def
	}
	return float32(f)
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
	component string
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	component := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = a.Value.String()
			return false
		}
		return true
	})

	if component != "" {
		newRecord := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", component, r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key != "component" {
				newRecord.AddAttrs(a)
			}
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps a logger-level component (slog.With("component", ...))
// out of the attributes so Handle can still find it.
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	component := h.component
	rest := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "component" {
			component = a.Value.String()
			continue
		}
		rest = append(rest, a)
	}
	return &ComponentHandler{Handler: h.Handler.WithAttrs(rest), component: component}
}

func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{Handler: h.Handler.WithGroup(name), component: h.component}
}

// ParseLevel maps LOG_LEVEL values onto slog levels; unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	opts := GetSlogHandlerOptions(ParseLevel(os.Getenv("LOG_LEVEL")))
	handler := slog.NewJSONHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(&ComponentHandler{Handler: handler}))
}

// NewLogger creates a configured logger instance
func NewLogger(serviceName string) *slog.Logger {
	opts := GetSlogHandlerOptions(ParseLevel(os.Getenv("LOG_LEVEL")))
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID)

	// Run records
	var db shared.Database
	if cfg.EnableRunRecords {
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Firestore init failed", "error", err)
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		db = database.NewFirestoreAdapter(fsClient)
		slog.Info("Run records: REAL (ENABLE_RUN_RECORDS=true)")
	} else {
		db = database.NewLogDatabase()
		slog.Info("Run records: MOCK (LogDatabase)")
	}

	// Pub/Sub
	var pubAdapter shared.Publisher
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		pubAdapter = &infrapubsub.PubSubAdapter{Client: psClient}
		slog.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		pubAdapter = &infrapubsub.LogPublisher{}
		slog.Info("Pub/Sub: MOCK (LogPublisher)")
	}

	// Storage
	var objects shared.BlobStore
	if cfg.usesGCS() {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		objects = &infrastorage.StorageAdapter{Client: gcsClient}
	}
	var store shared.BlobStore = &infrastorage.LocalStore{Root: cfg.LocalArtifactDir}
	if cfg.GCSArtifactBucket != "" {
		store = objects
		slog.Info("Artifacts: GCS", "bucket", cfg.GCSArtifactBucket)
	} else {
		slog.Info("Artifacts: LOCAL", "root", cfg.LocalArtifactDir)
	}

	return &Service{
		DB:      db,
		Pub:     pubAdapter,
		Store:   store,
		Objects: objects,
		Secrets: secrets.NewSecretsAdapter(),
		Config:  cfg,
	}, nil
}

func (c *Config) usesGCS() bool {
	return c.GCSArtifactBucket != "" || c.VectorCacheBucket != "" || strings.HasPrefix(c.CatalogPath, "gs://")
}
