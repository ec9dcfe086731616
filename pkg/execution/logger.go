// Package execution records import runs so a program import, and each of
// its weeks, can be traced after the fact.
package execution

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Database interface for Firestore operations
type Database interface {
	SetExecution(ctx context.Context, record *Record) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	TriggerType string
	Document    string
	Inputs      interface{}
}

// stringPtr returns a pointer to the given string
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newID(service string) string {
	return fmt.Sprintf("%s-%s", service, uuid.NewString())
}

func encode(v interface{}) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return stringPtr(string(b))
}

// LogPending creates an execution record with PENDING status
func LogPending(ctx context.Context, db Database, service string, opts ExecutionOptions) (string, error) {
	execID := newID(service)
	now := timestamppb.Now()

	record := &Record{
		ExecutionID: execID,
		Service:     service,
		Status:      StatusPending,
		Timestamp:   now,
		StartTime:   now,
		TriggerType: opts.TriggerType,
		Document:    opts.Document,
		InputsJSON:  encode(opts.Inputs),
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution pending: %w", err)
	}
	return execID, nil
}

// LogStart moves an execution record to STARTED and stores its inputs
func LogStart(ctx context.Context, db Database, execID string, inputs interface{}) error {
	updates := map[string]interface{}{
		"status":     int32(StatusStarted),
		"start_time": timestamppb.Now().AsTime(),
	}
	if s := encode(inputs); s != nil {
		updates["inputs_json"] = *s
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution start: %w", err)
	}
	return nil
}

// LogChildExecutionStart creates a STARTED record linked to a parent run
func LogChildExecutionStart(ctx context.Context, db Database, service string, parentExecutionID string, opts ExecutionOptions) (string, error) {
	execID := newID(service)
	now := timestamppb.Now()

	record := &Record{
		ExecutionID:       execID,
		Service:           service,
		Status:            StatusStarted,
		Timestamp:         now,
		StartTime:         now,
		TriggerType:       opts.TriggerType,
		Document:          opts.Document,
		ParentExecutionID: stringPtr(parentExecutionID),
		InputsJSON:        encode(opts.Inputs),
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log child execution start: %w", err)
	}
	return execID, nil
}

// LogSuccess updates an execution record with SUCCESS status
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	now := timestamppb.Now().AsTime()
	updates := map[string]interface{}{
		"status":    int32(StatusSuccess),
		"timestamp": now,
		"end_time":  now,
	}
	if s := encode(outputs); s != nil {
		updates["outputs_json"] = *s
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution success: %w", err)
	}
	return nil
}

// LogFailure updates an execution record with FAILED status
func LogFailure(ctx context.Context, db Database, execID string, err error, outputs interface{}) error {
	now := timestamppb.Now().AsTime()
	updates := map[string]interface{}{
		"status":        int32(StatusFailed),
		"timestamp":     now,
		"end_time":      now,
		"error_message": err.Error(),
	}
	if s := encode(outputs); s != nil {
		updates["outputs_json"] = *s
	}

	if updateErr := db.UpdateExecution(ctx, execID, updates); updateErr != nil {
		return fmt.Errorf("failed to log execution failure: %w", updateErr)
	}
	return nil
}
