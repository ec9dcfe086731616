package framework

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/fitglue-importer/pkg/bootstrap"
	"github.com/ripixel/fitglue-importer/pkg/execution"
	"github.com/ripixel/fitglue-importer/pkg/types"
)

// FrameworkContext carries what a wrapped handler needs besides the event.
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// HandlerFunc returns outputs (for the run record) and an error.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (interface{}, error)

// WrapCloudEvent wraps a handler with run records and unwraps CloudEvents
// delivered inside a Pub/Sub envelope.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		logger := slog.With("service", serviceName)

		execID, err := execution.LogPending(ctx, svc.DB, serviceName, execution.ExecutionOptions{
			TriggerType: "pubsub",
		})
		if err != nil {
			// Continue anyway - don't fail the function just because logging failed
			logger.Error("Failed to log execution pending", "error", err)
		}

		inner := unwrap(e)
		var inputs interface{}
		if len(inner.Data()) > 0 {
			inputs = json.RawMessage(inner.Data())
		}
		if err := execution.LogStart(ctx, svc.DB, execID, inputs); err != nil {
			logger.Warn("Failed to log execution start", "error", err)
		}

		logger = logger.With("execution_id", execID)
		logger.Info("Function started", "event_type", inner.Type(), "event_id", inner.ID())

		outputs, handlerErr := handler(ctx, inner, &FrameworkContext{
			Service:     svc,
			Logger:      logger,
			ExecutionID: execID,
		})

		if handlerErr != nil {
			logger.Error("Function failed", "error", handlerErr)
			if logErr := execution.LogFailure(ctx, svc.DB, execID, handlerErr, outputs); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			return handlerErr
		}

		logger.Info("Function completed successfully")
		if logErr := execution.LogSuccess(ctx, svc.DB, execID, outputs); logErr != nil {
			logger.Warn("Failed to log execution success", "error", logErr)
		}
		return nil
	}
}

// unwrap returns the CloudEvent carried in a Pub/Sub message, or e itself
// when the message data is not a CloudEvent.
func unwrap(e event.Event) event.Event {
	var msg types.PubSubMessage
	if err := e.DataAs(&msg); err != nil || len(msg.Message.Data) == 0 {
		return e
	}
	var inner event.Event
	if err := json.Unmarshal(msg.Message.Data, &inner); err != nil || inner.Validate() != nil {
		return e
	}
	return inner
}
