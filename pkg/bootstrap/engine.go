package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ripixel/fitglue-importer/pkg/catalog"
	"github.com/ripixel/fitglue-importer/pkg/embedding"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/secrets"
	"github.com/ripixel/fitglue-importer/pkg/platform/lyfta"
	"github.com/ripixel/fitglue-importer/pkg/reconcile"
	"github.com/ripixel/fitglue-importer/pkg/semantic"
)

// providerKeys names the secret each embedding backend needs.
var providerKeys = map[string]string{
	"gemini": secrets.GeminiAPIKey,
	"openai": secrets.OpenAIAPIKey,
}

// LoadCatalog reads the catalog from CATALOG_PATH, local or gs://.
func (s *Service) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	path := s.Config.CatalogPath
	if strings.HasPrefix(path, "gs://") {
		if s.Objects == nil {
			return nil, fmt.Errorf("catalog %s needs cloud storage", path)
		}
		return catalog.LoadFromStore(ctx, s.Objects, path)
	}
	return catalog.Load(path)
}

// NewEmbedder builds the configured embedding backend, resolving its API key
// through the secret store.
func (s *Service) NewEmbedder(ctx context.Context) (embedding.Embedder, error) {
	provider := strings.ToLower(s.Config.EmbeddingProvider)
	opts := embedding.Options{Model: s.Config.EmbeddingModel}
	if name, ok := providerKeys[provider]; ok {
		key, err := s.Secrets.GetSecret(ctx, s.Config.ProjectID, name)
		if err != nil {
			return nil, err
		}
		opts.APIKey = key
	}
	return embedding.New(ctx, provider, opts)
}

// NewEngine assembles the catalog, alias table and process-wide semantic
// index into a reconciliation engine. Any failure here is fatal to startup.
func (s *Service) NewEngine(ctx context.Context) (*reconcile.Engine, *catalog.Catalog, error) {
	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	table := reconcile.DefaultAliasTable()
	if s.Config.AliasTablePath != "" {
		if table, err = reconcile.LoadAliasTable(s.Config.AliasTablePath); err != nil {
			return nil, nil, err
		}
	}

	embedder, err := s.NewEmbedder(ctx)
	if err != nil {
		return nil, nil, err
	}

	var opts []semantic.Option
	if s.Config.VectorCacheBucket != "" && s.Objects != nil {
		opts = append(opts, semantic.WithCache(&semantic.VectorCache{
			Objects: s.Objects,
			Bucket:  s.Config.VectorCacheBucket,
		}))
	}
	index, err := semantic.Shared(ctx, embedder, cat, opts...)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Reconciliation engine ready",
		"catalog_size", cat.Len(),
		"aliases", len(table),
		"embedding_model", embedder.ModelID())

	engine := reconcile.NewEngine(reconcile.NewAliasResolver(table), index, reconcile.Config{
		AliasThreshold: s.Config.AliasThreshold,
		MinSimilarity:  s.Config.MinSimilarity,
	})
	return engine, cat, nil
}

// NewLyftaClient returns a platform client authenticated with the session
// cookie from the secret store.
func (s *Service) NewLyftaClient() *lyfta.Client {
	cookies := &secrets.CookieSource{Store: s.Secrets, ProjectID: s.Config.ProjectID}
	return lyfta.NewClient(s.Config.LyftaBaseURL, cookies, nil)
}
