// Package catalog loads the canonical exercise catalog the importer
// reconciles extracted names against.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

// Entry is one canonical exercise. ID and Name are required.
type Entry struct {
	ID           workout.Scalar `json:"id"`
	Name         string         `json:"name"`
	ExerciseType workout.Scalar `json:"exercise_type"`
	ImageName    string         `json:"image_name"`
}

// Catalog is an immutable, ordered list of entries. Order is the order the
// source listed them in and is used to break score ties downstream.
type Catalog struct {
	source  string
	entries []Entry
	byID    map[string]int
}

// ObjectReader reads a single object from a bucket.
type ObjectReader interface {
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// Load reads a catalog from a JSON file on disk.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.ErrCatalogLoad.WithCause(err).WithMetadata("source", path)
	}
	defer f.Close()
	return LoadFromReader(f, path)
}

// LoadFromStore reads a catalog from a gs://bucket/object URI.
func LoadFromStore(ctx context.Context, store ObjectReader, uri string) (*Catalog, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, apperrors.ErrCatalogLoad.WithCause(err).WithMetadata("source", uri)
	}
	data, err := store.Read(ctx, bucket, object)
	if err != nil {
		return nil, apperrors.ErrCatalogLoad.WithCause(err).WithMetadata("source", uri)
	}
	return LoadFromReader(bytes.NewReader(data), uri)
}

// ParseURI splits gs://bucket/object.
func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// uri: %q", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("uri must be gs://bucket/object: %q", uri)
	}
	return bucket, object, nil
}

// LoadFromReader decodes a JSON array of entries. The whole load fails if
// any record is invalid.
func LoadFromReader(r io.Reader, source string) (*Catalog, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, apperrors.ErrCatalogLoad.WithCause(err).
			WithMessage("catalog is not a valid JSON array of exercises").
			WithMetadata("source", source)
	}
	return New(source, entries)
}

// New validates entries and builds a catalog from them.
func New(source string, entries []Entry) (*Catalog, error) {
	byID := make(map[string]int, len(entries))
	names := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID.IsZero() {
			return nil, invalid(source, i, "missing id")
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, invalid(source, i, "missing name")
		}
		if j, dup := byID[e.ID.String()]; dup {
			return nil, invalid(source, i, fmt.Sprintf("duplicate id %s (first at record %d)", e.ID, j))
		}
		if j, dup := names[e.Name]; dup {
			return nil, invalid(source, i, fmt.Sprintf("duplicate name %q (first at record %d)", e.Name, j))
		}
		byID[e.ID.String()] = i
		names[e.Name] = i
	}

	own := make([]Entry, len(entries))
	copy(own, entries)

	slog.Info("Catalog loaded", "component", "catalog", "source", source, "entries", len(own))
	return &Catalog{source: source, entries: own, byID: byID}, nil
}

func invalid(source string, index int, reason string) error {
	return apperrors.ErrCatalogInvalid.
		WithMessage(fmt.Sprintf("record %d: %s", index, reason)).
		WithMetadata("source", source)
}

func (c *Catalog) Source() string { return c.source }

func (c *Catalog) Len() int { return len(c.entries) }

// Entry returns the i-th entry. It panics if i is out of range.
func (c *Catalog) Entry(i int) Entry { return c.entries[i] }

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByID looks up an entry by the textual form of its id.
func (c *Catalog) ByID(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}
