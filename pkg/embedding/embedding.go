// Package embedding provides text embedding backends for the semantic index.
package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Embedder turns texts into fixed-dimension vectors. Implementations must
// return exactly one vector per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// ModelID identifies the model and its settings. Vectors from embedders
	// with different ids are not comparable.
	ModelID() string
}

// Options configures a backend built through the registry.
type Options struct {
	APIKey     string
	Model      string
	Dimensions int
}

// Factory builds an Embedder.
type Factory func(ctx context.Context, opts Options) (Embedder, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a backend available under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[strings.ToLower(name)] = f
}

// New builds the backend registered under name.
func New(ctx context.Context, name string, opts Options) (Embedder, error) {
	registryMu.RLock()
	f, ok := factories[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown embedding provider %q (available: %s)", name, strings.Join(Providers(), ", "))
	}
	return f(ctx, opts)
}

// Providers lists registered backend names.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// batches splits texts into chunks of at most size.
func batches(texts []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		out = append(out, texts[start:end])
	}
	return out
}
