package pubsub

import (
	"encoding/json"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// NewCloudEvent creates a standardized CloudEvent v1.0
func NewCloudEvent(source, eventType string, data interface{}) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetSpecVersion("1.0")
	e.SetID(uuid.NewString())
	e.SetTime(time.Now())
	e.SetType(eventType)
	e.SetSource(source)

	// protojson keeps proto field names and well-known types readable
	if msg, ok := data.(proto.Message); ok {
		opts := protojson.MarshalOptions{
			UseProtoNames: true,
		}
		bytes, err := opts.Marshal(msg)
		if err != nil {
			return e, err
		}
		// Wrap in json.RawMessage so it's not base64 encoded
		if err := e.SetData(cloudevents.ApplicationJSON, json.RawMessage(bytes)); err != nil {
			return e, err
		}
	} else {
		if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
			return e, err
		}
	}

	return e, nil
}

// NewStructEvent builds an event whose payload is a plain map, carried as a
// structpb.Struct.
func NewStructEvent(source, eventType string, fields map[string]interface{}) (cloudevents.Event, error) {
	payload, err := structpb.NewStruct(fields)
	if err != nil {
		return cloudevents.NewEvent(), err
	}
	return NewCloudEvent(source, eventType, payload)
}
