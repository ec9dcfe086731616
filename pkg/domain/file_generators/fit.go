package file_generators

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
)

// GenerateWorkoutFile creates a FIT workout file for one day payload.
// Every set becomes a rep-counted step; sets without a numeric rep count
// become open steps.
func GenerateWorkoutFile(p workout.DayPayload, created time.Time) ([]byte, error) {
	w := p.Workout
	if w.Title == "" {
		return nil, fmt.Errorf("workout title cannot be empty")
	}

	fit := &proto.FIT{
		Messages: []proto.Message{},
	}

	// 1. FileId message
	fileId := mesgdef.NewFileId(nil).
		SetType(typedef.FileWorkout).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(created)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))

	// 2. Steps first so the Workout message knows how many are valid
	var steps []proto.Message
	for _, ex := range w.Exercises {
		category := MapExerciseToCategory(ex.ExerciseName)
		for i, set := range ex.Sets {
			step := mesgdef.NewWorkoutStep(nil).
				SetMessageIndex(typedef.MessageIndex(len(steps))).
				SetWktStepName(fmt.Sprintf("%s %d", ex.ExerciseName, i+1)).
				SetIntensity(typedef.IntensityActive).
				SetTargetType(typedef.WktStepTargetOpen).
				SetExerciseCategory(category).
				SetNotes(ex.ExerciseNote)

			if reps, ok := parseReps(set.Reps); ok {
				step.SetDurationType(typedef.WktStepDurationReps).
					SetDurationValue(reps)
			} else {
				step.SetDurationType(typedef.WktStepDurationOpen)
			}

			if kg, ok := parseWeight(set.Weight); ok {
				step.SetExerciseWeightScaled(kg)
			}

			steps = append(steps, step.ToMesg(nil))
		}
	}

	// 3. Workout message
	wkt := mesgdef.NewWorkout(nil).
		SetWktName(w.Title).
		SetSport(typedef.SportTraining).
		SetSubSport(typedef.SubSportStrengthTraining).
		SetNumValidSteps(uint16(len(steps)))
	fit.Messages = append(fit.Messages, wkt.ToMesg(nil))
	fit.Messages = append(fit.Messages, steps...)

	var buf bytes.Buffer
	enc := encoder.New(&buf)
	if err := enc.Encode(fit); err != nil {
		return nil, fmt.Errorf("failed to encode FIT file: %w", err)
	}
	return buf.Bytes(), nil
}

func parseReps(s string) (uint32, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint32(n), true
}

// parseWeight accepts plain numbers with an optional trailing "kg".
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "kg")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// WorkoutStepSummary is one decoded step.
type WorkoutStepSummary struct {
	Name     string
	Reps     uint32
	Category typedef.ExerciseCategory
	Notes    string
}

// WorkoutSummary is what DecodeWorkoutFile reads back from a FIT workout.
type WorkoutSummary struct {
	Name  string
	Sport typedef.Sport
	Steps []WorkoutStepSummary
}

// DecodeWorkoutFile reads the workout name and steps from a FIT file.
func DecodeWorkoutFile(data []byte) (*WorkoutSummary, error) {
	fitData, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIT file: %w", err)
	}

	summary := &WorkoutSummary{}
	for i := range fitData.Messages {
		msg := &fitData.Messages[i]
		switch msg.Num {
		case typedef.MesgNumWorkout:
			wkt := mesgdef.NewWorkout(msg)
			summary.Name = wkt.WktName
			summary.Sport = wkt.Sport
		case typedef.MesgNumWorkoutStep:
			step := mesgdef.NewWorkoutStep(msg)
			s := WorkoutStepSummary{
				Name:     step.WktStepName,
				Category: step.ExerciseCategory,
				Notes:    step.Notes,
			}
			if step.DurationType == typedef.WktStepDurationReps {
				s.Reps = step.DurationValue
			}
			summary.Steps = append(summary.Steps, s)
		}
	}
	return summary, nil
}
