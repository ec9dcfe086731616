package mocks

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	"github.com/ripixel/fitglue-importer/pkg/execution"
	"github.com/ripixel/fitglue-importer/pkg/platform/lyfta"
)

// --- Mock Database ---
type MockDatabase struct {
	SetExecutionFunc    func(ctx context.Context, record *execution.Record) error
	UpdateExecutionFunc func(ctx context.Context, id string, data map[string]interface{}) error
	GetExecutionFunc    func(ctx context.Context, id string) (*execution.Record, error)
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *execution.Record) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}
func (m *MockDatabase) GetExecution(ctx context.Context, id string) (*execution.Record, error) {
	if m.GetExecutionFunc != nil {
		return m.GetExecutionFunc(ctx, id)
	}
	return nil, fmt.Errorf("execution not found")
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return nil, fs.ErrNotExist
}

// MemoryBlobStore keeps objects in a map keyed "bucket/object".
type MemoryBlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{Objects: map[string][]byte{}}
}

func (m *MemoryBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[bucket+"/"+object] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[bucket+"/"+object]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, object, fs.ErrNotExist)
	}
	return data, nil
}

// --- Mock Secrets ---
type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "mock-secret-value", nil
}

// --- Mock Extractor ---
type MockExtractor struct {
	ExtractWeekFunc func(ctx context.Context, document string, week int) (*workout.WorkoutProgram, []byte, error)
	DurationFunc    func(ctx context.Context, document string) (int, error)
}

func (m *MockExtractor) ExtractWeek(ctx context.Context, document string, week int) (*workout.WorkoutProgram, []byte, error) {
	if m.ExtractWeekFunc != nil {
		return m.ExtractWeekFunc(ctx, document, week)
	}
	return nil, nil, fmt.Errorf("extraction not configured")
}

func (m *MockExtractor) Duration(ctx context.Context, document string) (int, error) {
	if m.DurationFunc != nil {
		return m.DurationFunc(ctx, document)
	}
	return 1, nil
}

// --- Mock Platform ---
type MockPlatform struct {
	CreateCollectionFunc          func(ctx context.Context, name string) (*lyfta.Collection, error)
	CreateWorkoutInCollectionFunc func(ctx context.Context, w lyfta.UploadWorkout, col *lyfta.Collection) (workout.Scalar, error)
}

func (m *MockPlatform) CreateCollection(ctx context.Context, name string) (*lyfta.Collection, error) {
	if m.CreateCollectionFunc != nil {
		return m.CreateCollectionFunc(ctx, name)
	}
	return &lyfta.Collection{ID: workout.NumberScalar(1), UserID: workout.NumberScalar(1), Name: name}, nil
}

func (m *MockPlatform) CreateWorkoutInCollection(ctx context.Context, w lyfta.UploadWorkout, col *lyfta.Collection) (workout.Scalar, error) {
	if m.CreateWorkoutInCollectionFunc != nil {
		return m.CreateWorkoutInCollectionFunc(ctx, w, col)
	}
	return workout.NumberScalar(100), nil
}
