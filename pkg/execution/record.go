package execution

import "google.golang.org/protobuf/types/known/timestamppb"

// Status is the lifecycle state of an import run.
type Status int32

const (
	StatusUnknown Status = iota
	StatusPending
	StatusStarted
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusStarted:
		return "STARTED"
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Record is one import run as stored in the executions collection.
type Record struct {
	ExecutionID       string                 `firestore:"execution_id"`
	Service           string                 `firestore:"service"`
	Status            Status                 `firestore:"status"`
	Timestamp         *timestamppb.Timestamp `firestore:"timestamp"`
	StartTime         *timestamppb.Timestamp `firestore:"start_time"`
	EndTime           *timestamppb.Timestamp `firestore:"end_time,omitempty"`
	TriggerType       string                 `firestore:"trigger_type"`
	Document          string                 `firestore:"document,omitempty"`
	ParentExecutionID *string                `firestore:"parent_execution_id,omitempty"`
	InputsJSON        *string                `firestore:"inputs_json,omitempty"`
	OutputsJSON       *string                `firestore:"outputs_json,omitempty"`
	ErrorMessage      *string                `firestore:"error_message,omitempty"`
}
