package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "text-embedding-004"
	geminiBatchSize    = 100
)

func init() {
	Register("gemini", func(ctx context.Context, opts Options) (Embedder, error) {
		return NewGemini(ctx, opts)
	})
}

// Gemini embeds through the Gemini API.
type Gemini struct {
	client     *genai.Client
	model      string
	dimensions int
}

func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini embedder: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, dimensions: opts.Dimensions}, nil
}

func (g *Gemini) ModelID() string {
	if g.dimensions > 0 {
		return fmt.Sprintf("gemini/%s/%d", g.model, g.dimensions)
	}
	return "gemini/" + g.model
}

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if g.dimensions > 0 {
		d := int32(g.dimensions)
		cfg.OutputDimensionality = &d
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, geminiBatchSize) {
		contents := make([]*genai.Content, len(batch))
		for i, t := range batch {
			contents[i] = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(t)}}
		}

		resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, cfg)
		if err != nil {
			return nil, fmt.Errorf("gemini embed: %w", err)
		}
		if len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("gemini embed: got %d vectors for %d inputs", len(resp.Embeddings), len(batch))
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}

	slog.Debug("Embedded texts", "component", "embedding", "provider", "gemini", "count", len(out))
	return out, nil
}
