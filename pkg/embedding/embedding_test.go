package embedding

import (
	"context"
	"math"
	"slices"
	"testing"
)

func TestRegistry_BuiltinProviders(t *testing.T) {
	got := Providers()
	for _, want := range []string{"gemini", "hashing", "openai"} {
		if !slices.Contains(got, want) {
			t.Errorf("provider %q not registered (have %v)", want, got)
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	e, err := New(ctx, "HASHING", Options{Dimensions: 64})
	if err != nil {
		t.Fatalf("New(hashing): %v", err)
	}
	if e.ModelID() != "hashing/64" {
		t.Errorf("ModelID = %q", e.ModelID())
	}

	if _, err := New(ctx, "word2vec", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := New(ctx, "openai", Options{}); err == nil {
		t.Error("expected error for missing openai key")
	}
	if _, err := New(ctx, "gemini", Options{}); err == nil {
		t.Error("expected error for missing gemini key")
	}
}

func TestHashing_Embed(t *testing.T) {
	h := NewHashing(0)
	vecs, err := h.Embed(context.Background(), []string{"bench press", "bench press", "barbell back squat", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 4 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != DefaultHashingDimensions {
			t.Errorf("vector %d has dim %d", i, len(v))
		}
	}
	if !slices.Equal(vecs[0], vecs[1]) {
		t.Error("embedding is not deterministic")
	}

	if n := l2(vecs[0]); math.Abs(n-1) > 1e-5 {
		t.Errorf("norm = %f, want 1", n)
	}
	if n := l2(vecs[3]); n != 0 {
		t.Errorf("empty text should embed to zero vector, norm %f", n)
	}

	same := dot(vecs[0], vecs[1])
	other := dot(vecs[0], vecs[2])
	if same <= other {
		t.Errorf("identical texts should score higher than unrelated ones: %f <= %f", same, other)
	}
}

func TestHashing_CloseNamesScoreHigher(t *testing.T) {
	h := NewHashing(512)
	vecs, _ := h.Embed(context.Background(), []string{"dumbbell bench press", "dumbbell bench", "cable crunch"})
	if dot(vecs[0], vecs[1]) <= dot(vecs[0], vecs[2]) {
		t.Error("shared words should increase similarity")
	}
}

func TestBatches(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	got := batches(in, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != "e" {
		t.Errorf("batches = %v", got)
	}
	if len(batches(nil, 10)) != 0 {
		t.Error("expected no batches for empty input")
	}
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func l2(v []float32) float64 { return math.Sqrt(dot(v, v)) }
