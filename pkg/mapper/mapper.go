// Package mapper turns an extracted weekly program into per-day workout
// payloads, reconciling every exercise along the way.
package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

// DefaultWorkers is the day pool size when none is configured.
const DefaultWorkers = 4

// timestampLayout matches the local ISO-8601 form the platform stores.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Matcher reconciles a day's exercises, dropping the ones it cannot match.
type Matcher interface {
	MatchExercises(ctx context.Context, raws []workout.RawExerciseEntry) []workout.ReconciledExercise
}

type Mapper struct {
	matcher Matcher
	workers int
	now     func() time.Time
}

func NewMapper(matcher Matcher, workers int) *Mapper {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Mapper{matcher: matcher, workers: workers, now: time.Now}
}

// MapDay builds the payload for one day. Exercises that fail to reconcile
// are left out of the payload.
func (m *Mapper) MapDay(ctx context.Context, week, day string, raws []workout.RawExerciseEntry) workout.DayPayload {
	exercises := m.matcher.MatchExercises(ctx, raws)
	if exercises == nil {
		exercises = []workout.ReconciledExercise{}
	}
	ts := m.now().Format(timestampLayout)
	return workout.DayPayload{Workout: workout.Workout{
		Title:      fmt.Sprintf("%s-%s", week, day),
		Color:      workout.DefaultWorkoutColor,
		CreateDate: ts,
		UpdateDate: ts,
		Exercises:  exercises,
	}}
}

type dayJob struct {
	week string
	day  workout.WorkoutDay
}

// MapProgram maps every non-skipped day on a bounded pool. Payloads are
// returned in completion order. The first failing day cancels the rest and
// no payloads are returned.
func (m *Mapper) MapProgram(ctx context.Context, program *workout.WorkoutProgram) ([]workout.DayPayload, error) {
	logger := slog.With("component", "mapper")

	var jobs []dayJob
	for _, w := range program.Weeks {
		for _, d := range w.Days {
			if d.Skip {
				logger.Debug("Skipping day without exercises", "week", w.Week, "day", d.Day)
				continue
			}
			jobs = append(jobs, dayJob{week: w.Week, day: d})
		}
	}

	var (
		mu      sync.Mutex
		results = make([]workout.DayPayload, 0, len(jobs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, job := range jobs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.New(apperrors.CodeInternalError, fmt.Sprintf("mapping %s-%s panicked: %v", job.week, job.day.Day, r))
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}

			payload := m.MapDay(gctx, job.week, job.day.Day, job.day.Exercises)

			mu.Lock()
			results = append(results, payload)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Program mapping aborted", "error", err, "days", len(jobs))
		return nil, err
	}

	logger.Info("Program mapped", "days", len(results), "workers", m.workers)
	return results, nil
}

// DecodeProgram parses a week JSON document.
func DecodeProgram(data []byte) (*workout.WorkoutProgram, error) {
	var program workout.WorkoutProgram
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidationError, "invalid workout program JSON")
	}
	return &program, nil
}

// ReadWorkoutJSON reads a week JSON file from disk and maps it.
func (m *Mapper) ReadWorkoutJSON(ctx context.Context, path string) ([]workout.DayPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrDocumentRead.WithCause(err).WithMetadata("path", path)
	}
	program, err := DecodeProgram(data)
	if err != nil {
		return nil, err
	}
	return m.MapProgram(ctx, program)
}
