package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

const openAIBatchSize = 512

func init() {
	Register("openai", func(_ context.Context, opts Options) (Embedder, error) {
		return NewOpenAI(opts)
	})
}

// OpenAI embeds through the OpenAI embeddings endpoint.
type OpenAI struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

func NewOpenAI(opts Options) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: api key is required")
	}
	model := openai.SmallEmbedding3
	if opts.Model != "" {
		model = openai.EmbeddingModel(opts.Model)
	}
	return &OpenAI{client: openai.NewClient(opts.APIKey), model: model, dimensions: opts.Dimensions}, nil
}

func (o *OpenAI) ModelID() string {
	if o.dimensions > 0 {
		return fmt.Sprintf("openai/%s/%d", o.model, o.dimensions)
	}
	return "openai/" + string(o.model)
}

func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, openAIBatchSize) {
		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      batch,
			Model:      o.model,
			Dimensions: o.dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai embed: got %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		data := resp.Data
		sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
		for _, d := range data {
			out = append(out, d.Embedding)
		}
	}

	slog.Debug("Embedded texts", "component", "embedding", "provider", "openai", "count", len(out))
	return out, nil
}
