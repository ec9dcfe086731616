package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ripixel/fitglue-importer/pkg/bootstrap"
	"github.com/ripixel/fitglue-importer/pkg/extraction"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/secrets"
)

var rootCmd = &cobra.Command{
	Use:   "program-import",
	Short: "Import workout programs into Lyfta",
	Long: `program-import reads a workout program document, extracts each week with
an LLM, reconciles every exercise against the catalog and uploads one
collection per week.

Configuration comes from the environment (CATALOG_PATH, EMBEDDING_PROVIDER,
GEMINI_API_KEY, LYFTA_COOKIE, ...).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newService(ctx context.Context) (*bootstrap.Service, error) {
	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("service init failed: %w", err)
	}
	return svc, nil
}

func newExtractor(ctx context.Context, svc *bootstrap.Service) (*extraction.Extractor, error) {
	key, err := svc.Secrets.GetSecret(ctx, svc.Config.ProjectID, secrets.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	return extraction.NewGeminiExtractor(ctx, key, svc.Config.GeminiModel)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
