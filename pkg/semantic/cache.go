package semantic

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
)

// ObjectStore is the subset of blob storage the vector cache needs.
type ObjectStore interface {
	Read(ctx context.Context, bucket, object string) ([]byte, error)
	Write(ctx context.Context, bucket, object string, data []byte) error
}

var cacheMagic = [4]byte{'F', 'G', 'V', '1'}

// VectorCache persists catalog matrices in a bucket so a restart with the
// same model and catalog skips re-embedding.
type VectorCache struct {
	Objects ObjectStore
	Bucket  string
	Prefix  string
}

// Key hashes the model id with every preprocessed name in order.
func (c *VectorCache) Key(modelID string, texts []string) string {
	h := xxhash.New()
	_, _ = h.WriteString(modelID)
	for _, t := range texts {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(t)
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = "vectors"
	}
	return fmt.Sprintf("%s/%016x.bin", prefix, h.Sum64())
}

// Load returns the cached matrix for key. Any read or decode problem is a
// miss.
func (c *VectorCache) Load(ctx context.Context, key string, rows int) (int, []float32, bool) {
	data, err := c.Objects.Read(ctx, c.Bucket, key)
	if err != nil {
		slog.Debug("Vector cache miss", "component", "semantic", "key", key, "error", err)
		return 0, nil, false
	}
	dim, vectors, err := decodeMatrix(data, rows)
	if err != nil {
		slog.Warn("Discarding corrupt vector cache entry", "component", "semantic", "key", key, "error", err)
		return 0, nil, false
	}
	return dim, vectors, true
}

func (c *VectorCache) Store(ctx context.Context, key string, dim int, vectors []float32) error {
	data, err := encodeMatrix(dim, vectors)
	if err != nil {
		return err
	}
	return c.Objects.Write(ctx, c.Bucket, key, data)
}

func encodeMatrix(dim int, vectors []float32) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(cacheMagic[:])
	if err := binary.Write(&buf, binary.LittleEndian, uint32(dim)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(vectors)/dim)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, vectors); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMatrix(data []byte, wantRows int) (int, []float32, error) {
	r := bytes.NewReader(data)
	var magic [4]byte
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil || magic != cacheMagic {
		return 0, nil, fmt.Errorf("bad header")
	}
	var dim, rows uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return 0, nil, err
	}
	if dim == 0 || int(rows) != wantRows {
		return 0, nil, fmt.Errorf("shape %dx%d does not match %d rows", rows, dim, wantRows)
	}
	if r.Len() != int(dim)*int(rows)*4 {
		return 0, nil, fmt.Errorf("payload is %d bytes, want %d", r.Len(), int(dim)*int(rows)*4)
	}
	vectors := make([]float32, int(dim)*int(rows))
	if err := binary.Read(r, binary.LittleEndian, vectors); err != nil {
		return 0, nil, err
	}
	return int(dim), vectors, nil
}
