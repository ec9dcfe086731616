package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const DefaultHashingDimensions = 256

func init() {
	Register("hashing", func(_ context.Context, opts Options) (Embedder, error) {
		return NewHashing(opts.Dimensions), nil
	})
}

// Hashing is an offline embedder that hashes words and character trigrams
// into a signed bag-of-features vector. Names sharing words or spelling end
// up close; it has no notion of synonyms.
type Hashing struct {
	dims int
}

func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

func (h *Hashing) ModelID() string { return fmt.Sprintf("hashing/%d", h.dims) }

func (h *Hashing) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float32 {
	v := make([]float32, h.dims)
	for _, word := range strings.Fields(text) {
		h.add(v, "w:"+word, 2)
		padded := []rune("^" + word + "$")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(v, "g:"+string(padded[i:i+3]), 1)
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= inv
		}
	}
	return v
}

func (h *Hashing) add(v []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}
