package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/fitglue-importer/pkg/execution"
)

// --- Persistence Interfaces ---

type Database interface {
	SetExecution(ctx context.Context, record *execution.Record) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
	GetExecution(ctx context.Context, id string) (*execution.Record, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Secrets Interface ---

type SecretStore interface {
	GetSecret(ctx context.Context, projectID, name string) (string, error)
}

// Topics and event types
const (
	TopicWeekImported = "program-week-imported"

	EventTypeWeekImported = "com.fitglue.program.week.imported"
	EventSource           = "/importer"
)
