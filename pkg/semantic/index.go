// Package semantic is an exact inner-product nearest-neighbour index over
// catalog entry names.
package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ripixel/fitglue-importer/pkg/catalog"
	"github.com/ripixel/fitglue-importer/pkg/embedding"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
	"github.com/ripixel/fitglue-importer/pkg/textnorm"
)

// Result is one nearest-neighbour hit.
type Result struct {
	Entry    catalog.Entry
	Position int
	Score    float32
}

// Index holds one unit-length vector per catalog entry in a contiguous
// row-major matrix. It is immutable after Build and safe for concurrent
// queries.
type Index struct {
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	dim      int
	vectors  []float32
}

type buildOptions struct {
	cache *VectorCache
}

// Option configures Build.
type Option func(*buildOptions)

// WithCache loads catalog vectors from cache when present and stores them
// after embedding otherwise.
func WithCache(cache *VectorCache) Option {
	return func(o *buildOptions) { o.cache = cache }
}

// Build embeds every catalog name and returns the index.
func Build(ctx context.Context, embedder embedding.Embedder, cat *catalog.Catalog, opts ...Option) (*Index, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cat.Len() == 0 {
		return nil, apperrors.ErrSemanticQuery.WithMessage("cannot build index over an empty catalog")
	}

	texts := make([]string, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		texts[i] = textnorm.PreprocessForEmbedding(cat.Entry(i).Name)
	}

	logger := slog.With("component", "semantic", "model", embedder.ModelID(), "entries", len(texts))
	start := time.Now()

	var key string
	if o.cache != nil {
		key = o.cache.Key(embedder.ModelID(), texts)
		if dim, vectors, ok := o.cache.Load(ctx, key, len(texts)); ok {
			logger.Info("Semantic index loaded from cache", "dim", dim, "key", key)
			return &Index{catalog: cat, embedder: embedder, dim: dim, vectors: vectors}, nil
		}
	}

	raw, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.ErrSemanticQuery.WithCause(err).WithMessage("failed to embed catalog")
	}
	if len(raw) != len(texts) {
		return nil, apperrors.ErrSemanticQuery.WithMessage(
			fmt.Sprintf("embedder returned %d vectors for %d catalog entries", len(raw), len(texts)))
	}

	dim := len(raw[0])
	if dim == 0 {
		return nil, apperrors.ErrSemanticQuery.WithMessage("embedder returned zero-dimension vectors")
	}
	vectors := make([]float32, 0, dim*len(raw))
	for i, v := range raw {
		if len(v) != dim {
			return nil, apperrors.ErrSemanticQuery.WithMessage(
				fmt.Sprintf("catalog vector %d has dimension %d, want %d", i, len(v), dim))
		}
		vectors = append(vectors, v...)
		normalize(vectors[i*dim : (i+1)*dim])
	}

	if o.cache != nil {
		if err := o.cache.Store(ctx, key, dim, vectors); err != nil {
			logger.Warn("Failed to store vector cache", "error", err)
		}
	}

	logger.Info("Semantic index built", "dim", dim, "duration_ms", time.Since(start).Milliseconds())
	return &Index{catalog: cat, embedder: embedder, dim: dim, vectors: vectors}, nil
}

func (ix *Index) Len() int { return ix.catalog.Len() }

func (ix *Index) Dim() int { return ix.dim }

// Query returns exactly topN results ordered by descending score. Equal
// scores keep catalog order.
func (ix *Index) Query(ctx context.Context, text string, topN int) ([]Result, error) {
	if topN < 1 || topN > ix.Len() {
		return nil, apperrors.ErrSemanticQuery.WithMessage(
			fmt.Sprintf("topN must be between 1 and %d, got %d", ix.Len(), topN))
	}

	vecs, err := ix.embedder.Embed(ctx, []string{textnorm.PreprocessForEmbedding(text)})
	if err != nil {
		return nil, apperrors.ErrSemanticQuery.WithCause(err).WithMetadata("query", text)
	}
	if len(vecs) != 1 || len(vecs[0]) != ix.dim {
		got := 0
		if len(vecs) > 0 {
			got = len(vecs[0])
		}
		return nil, apperrors.ErrSemanticQuery.WithMessage(
			fmt.Sprintf("query vector has dimension %d, want %d", got, ix.dim)).WithMetadata("query", text)
	}
	q := make([]float32, ix.dim)
	copy(q, vecs[0])
	normalize(q)

	return ix.search(q, topN), nil
}

// search keeps the best topN rows in a sorted slice. A later row only
// displaces an earlier one on a strictly higher score.
func (ix *Index) search(q []float32, topN int) []Result {
	top := make([]Result, 0, topN)
	for row := 0; row < ix.Len(); row++ {
		s := dot(q, ix.vectors[row*ix.dim:(row+1)*ix.dim])
		if len(top) == topN && s <= top[len(top)-1].Score {
			continue
		}
		pos := len(top)
		for pos > 0 && top[pos-1].Score < s {
			pos--
		}
		if len(top) < topN {
			top = append(top, Result{})
		}
		copy(top[pos+1:], top[pos:len(top)-1])
		top[pos] = Result{Entry: ix.catalog.Entry(row), Position: row, Score: s}
	}
	return top
}

func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

var (
	shared     *Index
	sharedOnce sync.Once
	sharedErr  error
)

// Shared returns the process-wide index, building it on first use. Later
// calls return the same index, or the same error, whatever arguments they
// pass.
func Shared(ctx context.Context, embedder embedding.Embedder, cat *catalog.Catalog, opts ...Option) (*Index, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = Build(ctx, embedder, cat, opts...)
		if sharedErr != nil {
			slog.Error("Failed to build semantic index", "component", "semantic", "error", sharedErr)
		}
	})
	return shared, sharedErr
}
