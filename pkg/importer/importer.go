// Package importer runs the week pipeline: obtain the week's program JSON,
// reconcile it into day workouts and push them to the platform.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	shared "github.com/ripixel/fitglue-importer/pkg"
	"github.com/ripixel/fitglue-importer/pkg/catalog"
	"github.com/ripixel/fitglue-importer/pkg/domain/file_generators"
	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
	"github.com/ripixel/fitglue-importer/pkg/execution"
	"github.com/ripixel/fitglue-importer/pkg/extraction"
	"github.com/ripixel/fitglue-importer/pkg/infrastructure/pubsub"
	"github.com/ripixel/fitglue-importer/pkg/mapper"
	"github.com/ripixel/fitglue-importer/pkg/platform/lyfta"
)

const (
	ServiceName     = "program-import"
	WeekServiceName = "week-import"

	SourceArtifact   = "artifact"
	SourceExtraction = "extraction"
)

// WeekExtractor produces a week's program JSON from document text.
type WeekExtractor interface {
	ExtractWeek(ctx context.Context, document string, week int) (*workout.WorkoutProgram, []byte, error)
	Duration(ctx context.Context, document string) (int, error)
}

// ProgramMapper turns an extracted program into day payloads.
type ProgramMapper interface {
	MapProgram(ctx context.Context, program *workout.WorkoutProgram) ([]workout.DayPayload, error)
}

// Platform receives the weekly collections and day workouts.
type Platform interface {
	CreateCollection(ctx context.Context, name string) (*lyfta.Collection, error)
	CreateWorkoutInCollection(ctx context.Context, w lyfta.UploadWorkout, col *lyfta.Collection) (workout.Scalar, error)
}

// Dependencies are the collaborators of an Importer. Platform may be nil
// when DryRun is set. Objects is only needed for gs:// documents.
type Dependencies struct {
	Extractor WeekExtractor
	Mapper    ProgramMapper
	Platform  Platform
	Store     shared.BlobStore
	Objects   shared.BlobStore
	Pub       shared.Publisher
	DB        shared.Database
}

type Options struct {
	// ArtifactBucket is passed to Store for week JSON and FIT files.
	ArtifactBucket string
	// ArtifactPrefix defaults to the document's base name without extension.
	ArtifactPrefix string
	Workers        int
	ExportFIT      bool
	Publish        bool
	// DryRun maps weeks without touching the platform.
	DryRun bool
}

// WeekResult summarizes one imported week.
type WeekResult struct {
	Week         int      `json:"week"`
	Source       string   `json:"source"`
	CollectionID string   `json:"collection_id,omitempty"`
	Workouts     []string `json:"workouts"`
	WorkoutIDs   []string `json:"workout_ids,omitempty"`
	FITObjects   []string `json:"fit_objects,omitempty"`
}

type Importer struct {
	deps Dependencies
	opts Options
	now  func() time.Time
}

func New(deps Dependencies, opts Options) *Importer {
	if opts.Workers <= 0 {
		opts.Workers = mapper.DefaultWorkers
	}
	return &Importer{deps: deps, opts: opts, now: time.Now}
}

// Run imports a document with a full run record: pending, started, then
// success or failure. weeks of zero asks the extractor for the duration.
func (i *Importer) Run(ctx context.Context, documentPath string, weeks int, triggerType string) ([]WeekResult, error) {
	logger := slog.With("component", "importer")

	execID, err := execution.LogPending(ctx, i.deps.DB, ServiceName, execution.ExecutionOptions{
		TriggerType: triggerType,
		Document:    documentPath,
	})
	if err != nil {
		logger.Warn("Failed to log execution pending", "error", err)
	}
	if err := execution.LogStart(ctx, i.deps.DB, execID, map[string]interface{}{"document": documentPath, "weeks": weeks}); err != nil {
		logger.Warn("Failed to log execution start", "error", err)
	}

	results, runErr := i.ImportProgram(ctx, documentPath, weeks, execID)
	if runErr != nil {
		if logErr := execution.LogFailure(ctx, i.deps.DB, execID, runErr, nil); logErr != nil {
			logger.Warn("Failed to log execution failure", "error", logErr)
		}
		return nil, runErr
	}
	if logErr := execution.LogSuccess(ctx, i.deps.DB, execID, results); logErr != nil {
		logger.Warn("Failed to log execution success", "error", logErr)
	}
	return results, nil
}

// ImportProgram imports weeks 1..weeks in parallel on a bounded pool. The
// first failing week cancels the rest and no results are returned.
func (i *Importer) ImportProgram(ctx context.Context, documentPath string, weeks int, parentExecID string) ([]WeekResult, error) {
	logger := slog.With("component", "importer", "document", documentPath)
	doc := i.lazyDocument(documentPath)

	if weeks <= 0 {
		text, err := doc(ctx)
		if err != nil {
			return nil, err
		}
		if weeks, err = i.deps.Extractor.Duration(ctx, text); err != nil {
			return nil, err
		}
		logger.Info("Detected program duration", "weeks", weeks)
	}

	var (
		mu      sync.Mutex
		results = make([]WeekResult, 0, weeks)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Workers)

	for week := 1; week <= weeks; week++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := i.importWeek(gctx, documentPath, doc, week, parentExecID)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, *res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Program import failed", "error", err)
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Week < results[b].Week })
	logger.Info("Program imported", "weeks", len(results))
	return results, nil
}

// ImportWeek imports a single week.
func (i *Importer) ImportWeek(ctx context.Context, documentPath string, week int, parentExecID string) (*WeekResult, error) {
	return i.importWeek(ctx, documentPath, i.lazyDocument(documentPath), week, parentExecID)
}

func (i *Importer) importWeek(ctx context.Context, documentPath string, doc func(context.Context) (string, error), week int, parentExecID string) (*WeekResult, error) {
	logger := slog.With("component", "importer", "week", week)
	start := time.Now()

	execID, err := execution.LogChildExecutionStart(ctx, i.deps.DB, WeekServiceName, parentExecID, execution.ExecutionOptions{
		Document: documentPath,
		Inputs:   map[string]int{"week": week},
	})
	if err != nil {
		logger.Warn("Failed to log week start", "error", err)
	}

	res, err := i.processWeek(ctx, documentPath, doc, week, logger)
	if err != nil {
		err = apperrors.Wrap(err, apperrors.GetCode(err), fmt.Sprintf("week %d", week)).WithMetadata("week", fmt.Sprint(week))
		logger.Error("Error processing week", "error", err)
		if logErr := execution.LogFailure(ctx, i.deps.DB, execID, err, nil); logErr != nil {
			logger.Warn("Failed to log week failure", "error", logErr)
		}
		return nil, err
	}

	if logErr := execution.LogSuccess(ctx, i.deps.DB, execID, res); logErr != nil {
		logger.Warn("Failed to log week success", "error", logErr)
	}
	logger.Info("Processed week", "source", res.Source, "workouts", len(res.Workouts), "duration", time.Since(start).String())
	return res, nil
}

func (i *Importer) processWeek(ctx context.Context, documentPath string, doc func(context.Context) (string, error), week int, logger *slog.Logger) (*WeekResult, error) {
	program, source, err := i.weekProgram(ctx, documentPath, doc, week)
	if err != nil {
		return nil, err
	}

	payloads, err := i.deps.Mapper.MapProgram(ctx, program)
	if err != nil {
		return nil, err
	}

	res := &WeekResult{Week: week, Source: source, Workouts: make([]string, len(payloads))}
	for n, p := range payloads {
		res.Workouts[n] = p.Workout.Title
	}

	if !i.opts.DryRun {
		if err := i.upload(ctx, week, payloads, res); err != nil {
			return nil, err
		}
	}

	if i.opts.ExportFIT {
		if err := i.exportFIT(ctx, documentPath, week, payloads, res); err != nil {
			return nil, err
		}
	}

	if i.opts.Publish {
		i.publish(ctx, documentPath, res, logger)
	}
	return res, nil
}

// weekProgram prefers a stored artifact and falls back to extraction,
// storing what the extractor produced.
func (i *Importer) weekProgram(ctx context.Context, documentPath string, doc func(context.Context) (string, error), week int) (*workout.WorkoutProgram, string, error) {
	object := i.artifactObject(documentPath, fmt.Sprintf("result-%d.json", week))

	data, err := i.deps.Store.Read(ctx, i.opts.ArtifactBucket, object)
	switch {
	case err == nil:
		program, err := mapper.DecodeProgram(data)
		if err != nil {
			return nil, "", err
		}
		return program, SourceArtifact, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, "", apperrors.ErrStorageError.WithCause(err).WithMetadata("object", object)
	}

	text, err := doc(ctx)
	if err != nil {
		return nil, "", err
	}
	program, raw, err := i.deps.Extractor.ExtractWeek(ctx, text, week)
	if err != nil {
		return nil, "", err
	}
	if err := i.deps.Store.Write(ctx, i.opts.ArtifactBucket, object, raw); err != nil {
		return nil, "", apperrors.ErrStorageError.WithCause(err).WithMetadata("object", object)
	}
	return program, SourceExtraction, nil
}

func (i *Importer) upload(ctx context.Context, week int, payloads []workout.DayPayload, res *WeekResult) error {
	if i.deps.Platform == nil {
		return apperrors.ErrValidation.WithMessage("no platform client configured")
	}
	col, err := i.deps.Platform.CreateCollection(ctx, fmt.Sprintf("Week %d", week))
	if err != nil {
		return err
	}
	res.CollectionID = col.ID.String()

	for _, p := range payloads {
		id, err := i.deps.Platform.CreateWorkoutInCollection(ctx, lyfta.FormatWorkout(p, i.now()), col)
		if err != nil {
			return err
		}
		res.WorkoutIDs = append(res.WorkoutIDs, id.String())
	}
	return nil
}

func (i *Importer) exportFIT(ctx context.Context, documentPath string, week int, payloads []workout.DayPayload, res *WeekResult) error {
	for _, p := range payloads {
		data, err := file_generators.GenerateWorkoutFile(p, i.now())
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate FIT workout")
		}
		object := i.artifactObject(documentPath, path.Join("fit", fmt.Sprintf("week-%d", week), FileName(p.Workout.Title)+".fit"))
		if err := i.deps.Store.Write(ctx, i.opts.ArtifactBucket, object, data); err != nil {
			return apperrors.ErrStorageError.WithCause(err).WithMetadata("object", object)
		}
		res.FITObjects = append(res.FITObjects, object)
	}
	return nil
}

// publish failures are logged; the week is already on the platform.
func (i *Importer) publish(ctx context.Context, documentPath string, res *WeekResult, logger *slog.Logger) {
	workouts := make([]interface{}, len(res.Workouts))
	for n, w := range res.Workouts {
		workouts[n] = w
	}
	e, err := pubsub.NewStructEvent(shared.EventSource, shared.EventTypeWeekImported, map[string]interface{}{
		"document":      documentPath,
		"week":          res.Week,
		"source":        res.Source,
		"collection_id": res.CollectionID,
		"workouts":      workouts,
	})
	if err != nil {
		logger.Warn("Failed to build week event", "error", apperrors.ErrPubSubError.WithCause(err))
		return
	}
	if _, err := i.deps.Pub.PublishCloudEvent(ctx, shared.TopicWeekImported, e); err != nil {
		logger.Warn("Failed to publish week event", "error", apperrors.ErrPubSubError.WithCause(err))
	}
}

func (i *Importer) artifactObject(documentPath, name string) string {
	prefix := i.opts.ArtifactPrefix
	if prefix == "" {
		base := filepath.Base(documentPath)
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return path.Join(prefix, name)
}

// lazyDocument reads and renders the document at most once, on first use.
func (i *Importer) lazyDocument(documentPath string) func(context.Context) (string, error) {
	var (
		once sync.Once
		text string
		err  error
	)
	return func(ctx context.Context) (string, error) {
		once.Do(func() {
			text, err = i.readDocument(ctx, documentPath)
		})
		return text, err
	}
}

func (i *Importer) readDocument(ctx context.Context, documentPath string) (string, error) {
	if !strings.HasPrefix(documentPath, "gs://") {
		return extraction.ReadDocument(documentPath)
	}
	if i.deps.Objects == nil {
		return "", apperrors.ErrDocumentRead.WithMessage("cloud storage is not configured").WithMetadata("path", documentPath)
	}
	bucket, object, err := catalog.ParseURI(documentPath)
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("path", documentPath)
	}
	data, err := i.deps.Objects.Read(ctx, bucket, object)
	if err != nil {
		return "", apperrors.ErrDocumentRead.WithCause(err).WithMetadata("path", documentPath)
	}
	return extraction.RenderDocument(bytes.NewReader(data), object)
}

// FileName turns a workout title into a file name.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
