package database

import (
	"context"
	"log/slog"
	"sync"

	"cloud.google.com/go/firestore"

	"github.com/ripixel/fitglue-importer/pkg/execution"
)

const executionsCollection = "executions"

// FirestoreAdapter provides database operations using Firestore
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) executions() *firestore.CollectionRef {
	return a.Client.Collection(executionsCollection)
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *execution.Record) error {
	_, err := a.executions().Doc(record.ExecutionID).Set(ctx, record)
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	// MergeAll keeps the fields we don't touch
	_, err := a.executions().Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

func (a *FirestoreAdapter) GetExecution(ctx context.Context, id string) (*execution.Record, error) {
	snap, err := a.executions().Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var record execution.Record
	if err := snap.DataTo(&record); err != nil {
		return nil, err
	}
	if record.ExecutionID == "" {
		record.ExecutionID = snap.Ref.ID
	}
	return &record, nil
}

// LogDatabase keeps run records in memory and logs every write. Used when
// run records are disabled or no project is configured.
type LogDatabase struct {
	mu      sync.Mutex
	records map[string]*execution.Record
	updates map[string]map[string]interface{}
}

func NewLogDatabase() *LogDatabase {
	return &LogDatabase{
		records: map[string]*execution.Record{},
		updates: map[string]map[string]interface{}{},
	}
}

func (d *LogDatabase) SetExecution(ctx context.Context, record *execution.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := *record
	d.records[record.ExecutionID] = &copied
	slog.Debug("MOCK SET EXECUTION", "execution_id", record.ExecutionID, "service", record.Service, "status", record.Status.String())
	return nil
}

func (d *LogDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	merged, ok := d.updates[id]
	if !ok {
		merged = map[string]interface{}{}
		d.updates[id] = merged
	}
	for k, v := range data {
		merged[k] = v
	}
	if rec, ok := d.records[id]; ok {
		if status, ok := data["status"].(int32); ok {
			rec.Status = execution.Status(status)
		}
		if msg, ok := data["error_message"].(string); ok {
			rec.ErrorMessage = &msg
		}
		if out, ok := data["outputs_json"].(string); ok {
			rec.OutputsJSON = &out
		}
	}
	slog.Debug("MOCK UPDATE EXECUTION", "execution_id", id, "fields", len(data))
	return nil
}

func (d *LogDatabase) GetExecution(ctx context.Context, id string) (*execution.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// Updates returns the merged update fields written for id.
func (d *LogDatabase) Updates(id string) map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]interface{}, len(d.updates[id]))
	for k, v := range d.updates[id] {
		out[k] = v
	}
	return out
}
