// Package secrets resolves API keys and the platform session cookie.
package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

// Secret names
const (
	GeminiAPIKey = "GEMINI_API_KEY"
	OpenAIAPIKey = "OPENAI_API_KEY"
	LyftaCookie  = "LYFTA_COOKIE"
)

// SecretsAdapter checks the environment first and falls back to Secret
// Manager.
type SecretsAdapter struct {
	lookupEnv func(string) (string, bool)
	access    func(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error)
}

func NewSecretsAdapter() *SecretsAdapter {
	return &SecretsAdapter{lookupEnv: os.LookupEnv, access: accessLatest}
}

func (a *SecretsAdapter) GetSecret(ctx context.Context, projectID, secretName string) (string, error) {
	if val, ok := a.lookupEnv(secretName); ok && val != "" {
		slog.Debug("Using local env var for secret", "component", "secrets", "secret", secretName)
		return val, nil
	}
	if projectID == "" {
		return "", apperrors.ErrSecretError.WithMessage(fmt.Sprintf("secret %s not set and no project configured", secretName))
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)
	payload, err := a.access(ctx, name)
	if err != nil {
		return "", apperrors.ErrSecretError.WithCause(err).WithMetadata("secret", secretName)
	}

	crc32c := crc32.MakeTable(crc32.Castagnoli)
	checksum := int64(crc32.Checksum(payload.Data, crc32c))
	if payload.DataCrc32C != nil && *payload.DataCrc32C != checksum {
		return "", apperrors.ErrSecretError.WithMessage("data corruption detected").WithMetadata("secret", secretName)
	}

	return string(payload.Data), nil
}

func accessLatest(ctx context.Context, name string) (*secretmanagerpb.SecretPayload, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secretmanager client: %w", err)
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %w", err)
	}
	return result.Payload, nil
}
