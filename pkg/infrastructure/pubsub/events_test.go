package pubsub

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewStructEvent(t *testing.T) {
	e, err := NewStructEvent("/importer", "com.fitglue.program.week.imported", map[string]interface{}{
		"week":          2,
		"collection_id": "991",
		"workouts":      []interface{}{"Week 2-Day 1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID() == "" || e.Type() != "com.fitglue.program.week.imported" || e.Source() != "/importer" {
		t.Errorf("event attributes = %v", e)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(e.Data(), &body); err != nil {
		t.Fatalf("payload is not plain JSON: %v (%s)", err, e.Data())
	}
	if body["week"] != float64(2) || body["collection_id"] != "991" {
		t.Errorf("payload = %v", body)
	}
}

func TestNewStructEvent_RejectsUnsupported(t *testing.T) {
	if _, err := NewStructEvent("/importer", "x", map[string]interface{}{"ch": make(chan int)}); err == nil {
		t.Error("expected error for unsupported value")
	}
}

func TestLogPublisher(t *testing.T) {
	e, _ := NewCloudEvent("/importer", "test", map[string]string{"a": "b"})
	p := &LogPublisher{}
	id, err := p.PublishCloudEvent(context.Background(), "topic", e)
	if err != nil || id != "mock-msg-id" {
		t.Fatalf("got %q, %v", id, err)
	}
	if len(p.Events) != 1 {
		t.Errorf("events = %d", len(p.Events))
	}
}
