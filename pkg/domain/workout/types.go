// Package workout holds the wire types exchanged with the extraction step
// (field names match its structured-output contract) and the reconciled
// payloads handed to the platform client.
package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Reps struct {
	IsRange bool `json:"isRange"`
	Value   Text `json:"value"`
	Min     Text `json:"min"`
	Max     Text `json:"max"`
}

type Weight struct {
	Value Text `json:"value"`
	Unit  Text `json:"unit"`
}

type RestTime struct {
	Value Text `json:"value"`
	Unit  Text `json:"unit"`
}

// RawSetEntry is one set as extracted from the document.
type RawSetEntry struct {
	SetNumber int      `json:"Set Number"`
	Reps      Reps     `json:"Reps"`
	Weight    Weight   `json:"Weight"`
	RestTime  RestTime `json:"Rest Time"`
}

// RawExerciseEntry is one exercise as extracted from the document.
type RawExerciseEntry struct {
	ExerciseName string        `json:"Exercise Name"`
	Sets         []RawSetEntry `json:"Sets"`
	Notes        string        `json:"Notes"`
}

// WorkoutDay is a single day of a week. The extraction step marks rest days
// with "exercises": "" instead of an empty array; Skip records that marker.
type WorkoutDay struct {
	Day       string             `json:"day"`
	Exercises []RawExerciseEntry `json:"exercises"`
	Skip      bool               `json:"-"`
}

func (d *WorkoutDay) UnmarshalJSON(data []byte) error {
	var raw struct {
		Day       string          `json:"day"`
		Exercises json.RawMessage `json:"exercises"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = WorkoutDay{Day: raw.Day}

	trimmed := bytes.TrimSpace(raw.Exercises)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		d.Exercises = []RawExerciseEntry{}
	case trimmed[0] == '"':
		var marker string
		if err := json.Unmarshal(trimmed, &marker); err != nil {
			return err
		}
		if marker != "" {
			return fmt.Errorf("day %q: exercises must be an array or the empty marker, got %q", raw.Day, marker)
		}
		d.Skip = true
	default:
		if err := json.Unmarshal(trimmed, &d.Exercises); err != nil {
			return fmt.Errorf("day %q: %w", raw.Day, err)
		}
	}
	return nil
}

func (d WorkoutDay) MarshalJSON() ([]byte, error) {
	if d.Skip {
		return json.Marshal(struct {
			Day       string `json:"day"`
			Exercises string `json:"exercises"`
		}{d.Day, ""})
	}
	exercises := d.Exercises
	if exercises == nil {
		exercises = []RawExerciseEntry{}
	}
	return json.Marshal(struct {
		Day       string             `json:"day"`
		Exercises []RawExerciseEntry `json:"exercises"`
	}{d.Day, exercises})
}

type WeeklyWorkout struct {
	Week string       `json:"week"`
	Days []WorkoutDay `json:"days"`
}

// WorkoutProgram is the top-level extraction result for one or more weeks.
type WorkoutProgram struct {
	Weeks []WeeklyWorkout `json:"weeks"`
}

// SimpleSet is the reduced set shape the platform accepts.
type SimpleSet struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// ReconciledExercise is an extracted exercise bound to a catalog entry.
type ReconciledExercise struct {
	ExerciseID    Scalar      `json:"exercise_id"`
	ExerciseName  string      `json:"exercise_name"`
	ExerciseImage string      `json:"exercise_image"`
	ExerciseType  Scalar      `json:"exercise_type"`
	ExerciseUUID  string      `json:"exercise_uuid"`
	ExerciseNote  string      `json:"exercise_note"`
	Sets          []SimpleSet `json:"sets"`
}

// DefaultWorkoutColor is the color assigned to every imported workout.
const DefaultWorkoutColor = "#1A118F"

// Workout is the day/workout envelope the mapper produces.
type Workout struct {
	ID          *string              `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Note        string               `json:"note"`
	Color       string               `json:"color"`
	Picture     string               `json:"picture"`
	UserID      *string              `json:"user_id"`
	CreateDate  string               `json:"create_date"`
	UpdateDate  string               `json:"update_date"`
	Exercises   []ReconciledExercise `json:"exercises"`
}

// DayPayload wraps a Workout the way the platform expects it.
type DayPayload struct {
	Workout Workout `json:"workout"`
}
