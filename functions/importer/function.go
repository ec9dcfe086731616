package programimport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/fitglue-importer/pkg/bootstrap"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
	"github.com/ripixel/fitglue-importer/pkg/extraction"
	"github.com/ripixel/fitglue-importer/pkg/framework"
	"github.com/ripixel/fitglue-importer/pkg/importer"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/secrets"
	"github.com/ripixel/fitglue-importer/pkg/mapper"
	"github.com/ripixel/fitglue-importer/pkg/types"
)

// ImporterService holds the pipeline pieces built once per instance.
type ImporterService struct {
	Service   *bootstrap.Service
	Extractor importer.WeekExtractor
	Mapper    importer.ProgramMapper
	Platform  importer.Platform
}

var (
	svc     *ImporterService
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("ImportProgram", ImportProgram)
}

func initService(ctx context.Context) (*ImporterService, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		svc, svcErr = newImporterService(ctx)
		if svcErr != nil {
			slog.Error("Failed to initialize service", "error", svcErr)
		}
	})
	return svc, svcErr
}

func newImporterService(ctx context.Context) (*ImporterService, error) {
	base, err := bootstrap.NewService(ctx)
	if err != nil {
		return nil, err
	}
	engine, _, err := base.NewEngine(ctx)
	if err != nil {
		return nil, err
	}
	key, err := base.Secrets.GetSecret(ctx, base.Config.ProjectID, secrets.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	extractor, err := extraction.NewGeminiExtractor(ctx, key, base.Config.GeminiModel)
	if err != nil {
		return nil, err
	}
	return &ImporterService{
		Service:   base,
		Extractor: extractor,
		Mapper:    mapper.NewMapper(engine, base.Config.WorkerCount),
		Platform:  base.NewLyftaClient(),
	}, nil
}

// ImportProgram is the entry point
func ImportProgram(ctx context.Context, e event.Event) error {
	s, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(importer.ServiceName, s.Service, s.importHandler)(ctx, e)
}

func (s *ImporterService) importHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	req, err := decodeRequest(e)
	if err != nil {
		return nil, err
	}
	fwCtx.Logger.Info("Starting import", "document", req.Document, "weeks", req.Weeks, "dry_run", req.DryRun)

	cfg := s.Service.Config
	imp := importer.New(importer.Dependencies{
		Extractor: s.Extractor,
		Mapper:    s.Mapper,
		Platform:  s.Platform,
		Store:     s.Service.Store,
		Objects:   s.Service.Objects,
		Pub:       s.Service.Pub,
		DB:        s.Service.DB,
	}, importer.Options{
		ArtifactBucket: cfg.GCSArtifactBucket,
		Workers:        cfg.WorkerCount,
		ExportFIT:      req.ExportFIT,
		Publish:        true,
		DryRun:         req.DryRun,
	})

	results, err := imp.ImportProgram(ctx, req.Document, req.Weeks, fwCtx.ExecutionID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status": "imported",
		"weeks":  results,
	}, nil
}

// decodeRequest accepts the request either as the event data or as the raw
// data of a Pub/Sub message.
func decodeRequest(e event.Event) (*types.ImportRequest, error) {
	var req types.ImportRequest
	if err := e.DataAs(&req); err == nil && req.Document != "" {
		return &req, nil
	}

	var msg types.PubSubMessage
	if err := e.DataAs(&msg); err != nil {
		return nil, apperrors.ErrValidation.WithCause(err).WithMessage("event data is not an import request")
	}
	if err := json.Unmarshal(msg.Message.Data, &req); err != nil {
		return nil, apperrors.ErrValidation.WithCause(err).WithMessage("message data is not an import request")
	}
	if req.Document == "" {
		return nil, apperrors.ErrValidation.WithMessage("import request has no document")
	}
	return &req, nil
}
