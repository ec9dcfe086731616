package lyfta

import (
	"time"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
)

const (
	isoLayout      = "2006-01-02T15:04:05.000000"
	exerciseLayout = "2006-01-02 15:04:05"
)

type UploadSet struct {
	SetTypeID int    `json:"set_type_id"`
	Reps      string `json:"reps"`
	Weight    string `json:"weight"`
	RIR       string `json:"rir"`
	Duration  string `json:"duration"`
	Distance  string `json:"distance"`
}

type UploadExercise struct {
	SupersetID    int            `json:"exercise_superset_id"`
	ExerciseID    workout.Scalar `json:"exercise_id"`
	ExerciseNote  string         `json:"exercise_note"`
	RestTime      int            `json:"exercise_rest_time"`
	WorkoutID     int            `json:"workout_id"`
	DateUpdated   string         `json:"date_updated"`
	ExerciseType  workout.Scalar `json:"exercise_type"`
	DateCreated   string         `json:"date_created"`
	ExerciseImage string         `json:"exercise_image"`
	// The platform spells this field with a double c.
	ExerciseName string      `json:"excercise_name"`
	Sets         []UploadSet `json:"sets"`
}

type UploadWorkout struct {
	ID          *workout.Scalar  `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Note        string           `json:"note"`
	Color       string           `json:"color"`
	Picture     string           `json:"picture"`
	UserID      *workout.Scalar  `json:"user_id"`
	CreateDate  string           `json:"create_date"`
	UpdateDate  string           `json:"update_date"`
	Exercises   []UploadExercise `json:"exercises"`
}

// FormatWorkout converts a mapped day into the shape SaveTemplate accepts.
func FormatWorkout(p workout.DayPayload, now time.Time) UploadWorkout {
	stamp := now.Format(exerciseLayout)
	w := p.Workout

	exercises := make([]UploadExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		sets := make([]UploadSet, len(ex.Sets))
		for j, s := range ex.Sets {
			sets[j] = UploadSet{Reps: s.Reps, Weight: s.Weight}
		}
		exercises[i] = UploadExercise{
			ExerciseID:    ex.ExerciseID,
			ExerciseNote:  ex.ExerciseNote,
			DateUpdated:   stamp,
			ExerciseType:  ex.ExerciseType,
			DateCreated:   stamp,
			ExerciseImage: ex.ExerciseImage,
			ExerciseName:  ex.ExerciseName,
			Sets:          sets,
		}
	}

	return UploadWorkout{
		Title:       w.Title,
		Description: w.Description,
		Note:        w.Note,
		Color:       w.Color,
		Picture:     w.Picture,
		CreateDate:  w.CreateDate,
		UpdateDate:  w.UpdateDate,
		Exercises:   exercises,
	}
}
