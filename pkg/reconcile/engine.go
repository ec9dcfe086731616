// Package reconcile binds free-text exercise names to catalog entries.
//
// Each name is cleaned, scored against an alias table and then looked up in
// the semantic index. When the best alias is a confident match its
// canonical value is what gets looked up; otherwise the cleaned name is.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
	"github.com/ripixel/fitglue-importer/pkg/semantic"
	"github.com/ripixel/fitglue-importer/pkg/textnorm"
)

// DefaultAliasThreshold is the alias score at or above which the alias
// value replaces the name for the semantic lookup.
const DefaultAliasThreshold = 95

// Searcher finds the closest catalog entries to a text.
type Searcher interface {
	Query(ctx context.Context, text string, topN int) ([]semantic.Result, error)
}

type Config struct {
	// AliasThreshold defaults to DefaultAliasThreshold when zero.
	AliasThreshold int
	// MinSimilarity rejects semantic hits scoring below it. Zero disables
	// the floor and the top hit is always accepted.
	MinSimilarity float32
}

// Engine is stateless per call and safe for concurrent use.
type Engine struct {
	aliases *AliasResolver
	index   Searcher
	cfg     Config
	newUUID func() string
}

func NewEngine(aliases *AliasResolver, index Searcher, cfg Config) *Engine {
	if cfg.AliasThreshold == 0 {
		cfg.AliasThreshold = DefaultAliasThreshold
	}
	return &Engine{
		aliases: aliases,
		index:   index,
		cfg:     cfg,
		newUUID: uuid.NewString,
	}
}

// Decision records how one name was resolved.
type Decision struct {
	Input      string
	Primary    string
	Alias      AliasMatch
	UsedAlias  bool
	QueryText  string
	Candidates []semantic.Result
}

// Explain runs the lookup for name and returns the top candidates from the
// semantic index along with the alias step.
func (e *Engine) Explain(ctx context.Context, name string, topN int) (*Decision, error) {
	primary := textnorm.Normalize(textnorm.StripAnnotations(name))

	match, err := e.aliases.Resolve(primary)
	if err != nil {
		return nil, err
	}

	d := &Decision{Input: name, Primary: primary, Alias: match, QueryText: primary}
	if match.Score >= e.cfg.AliasThreshold {
		d.UsedAlias = true
		d.QueryText = match.Value
	}

	d.Candidates, err = e.index.Query(ctx, d.QueryText, topN)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reconcile binds one extracted exercise to a catalog entry. Every failure
// is returned as MATCH_FAILED carrying the exercise name.
func (e *Engine) Reconcile(ctx context.Context, raw workout.RawExerciseEntry) (*workout.ReconciledExercise, error) {
	d, err := e.Explain(ctx, raw.ExerciseName, 1)
	if err != nil {
		return nil, matchFailed(raw.ExerciseName, err)
	}

	if len(d.Candidates) == 0 {
		return nil, matchFailed(raw.ExerciseName, fmt.Errorf("no candidates for %q", d.QueryText))
	}
	top := d.Candidates[0]
	if e.cfg.MinSimilarity > 0 && top.Score < e.cfg.MinSimilarity {
		return nil, matchFailed(raw.ExerciseName, fmt.Errorf(
			"best candidate %q scored %.3f, below floor %.3f", top.Entry.Name, top.Score, e.cfg.MinSimilarity))
	}

	return &workout.ReconciledExercise{
		ExerciseID:    top.Entry.ID,
		ExerciseName:  top.Entry.Name,
		ExerciseImage: top.Entry.ImageName,
		ExerciseType:  top.Entry.ExerciseType,
		ExerciseUUID:  e.newUUID(),
		ExerciseNote:  composeNote(raw),
		Sets:          collapseSets(raw.Sets),
	}, nil
}

func matchFailed(name string, cause error) error {
	return apperrors.ErrMatchFailed.WithCause(cause).WithMetadata("exercise_name", name)
}

func composeNote(raw workout.RawExerciseEntry) string {
	if raw.Notes != "" {
		return fmt.Sprintf("(Original Name: %s). Notes: %s", raw.ExerciseName, raw.Notes)
	}
	return fmt.Sprintf("Original Name: %s", raw.ExerciseName)
}

// collapseSets reduces each set to weight and reps. A rep range becomes its
// lower bound.
func collapseSets(sets []workout.RawSetEntry) []workout.SimpleSet {
	out := make([]workout.SimpleSet, len(sets))
	for i, s := range sets {
		reps := s.Reps.Value
		if s.Reps.IsRange {
			reps = s.Reps.Min
		}
		out[i] = workout.SimpleSet{Weight: string(s.Weight.Value), Reps: string(reps)}
	}
	return out
}

// Outcome is the result for one input of ReconcileAll.
type Outcome struct {
	Index    int
	Exercise *workout.ReconciledExercise
	Err      error
}

// ReconcileAll reconciles every entry and returns one outcome per input in
// input order.
func (e *Engine) ReconcileAll(ctx context.Context, raws []workout.RawExerciseEntry) []Outcome {
	out := make([]Outcome, len(raws))
	for i, raw := range raws {
		ex, err := e.Reconcile(ctx, raw)
		out[i] = Outcome{Index: i, Exercise: ex, Err: err}
	}
	return out
}

// MatchExercises returns the reconciled exercises in input order. Failures
// are logged and left out.
func (e *Engine) MatchExercises(ctx context.Context, raws []workout.RawExerciseEntry) []workout.ReconciledExercise {
	logger := slog.With("component", "reconcile")
	matched := make([]workout.ReconciledExercise, 0, len(raws))
	for _, o := range e.ReconcileAll(ctx, raws) {
		if o.Err != nil {
			logger.Error("Error matching exercise", "exercise_name", raws[o.Index].ExerciseName, "error", o.Err)
			continue
		}
		matched = append(matched, *o.Exercise)
	}
	logger.Info("Matched exercises", "matched", len(matched), "total", len(raws))
	return matched
}
