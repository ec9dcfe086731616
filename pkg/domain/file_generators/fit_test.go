package file_generators

import (
	"testing"
	"time"

	"github.com/muktihari/fit/profile/typedef"

	"github.com/ripixel/fitglue-importer/pkg/domain/workout"
)

func TestGenerateWorkoutFile(t *testing.T) {
	p := workout.DayPayload{Workout: workout.Workout{
		Title: "Week 1-Day 1",
		Exercises: []workout.ReconciledExercise{
			{
				ExerciseName: "Barbell Bench Press",
				ExerciseNote: "Original Name: Bench",
				Sets:         []workout.SimpleSet{{Weight: "60", Reps: "8"}, {Weight: "62.5kg", Reps: "6"}},
			},
			{
				ExerciseName: "Plank",
				Sets:         []workout.SimpleSet{{Reps: "AMRAP"}},
			},
		},
	}}

	result, err := GenerateWorkoutFile(p, time.Date(2025, 1, 24, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result) == 0 {
		t.Fatal("Expected non-empty FIT file result")
	}

	summary, err := DecodeWorkoutFile(result)
	if err != nil {
		t.Fatalf("Failed to decode generated FIT file: %v", err)
	}
	if summary.Name != "Week 1-Day 1" || summary.Sport != typedef.SportTraining {
		t.Errorf("workout = %+v", summary)
	}
	if len(summary.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(summary.Steps))
	}

	first := summary.Steps[0]
	if first.Reps != 8 || first.Category != typedef.ExerciseCategoryBenchPress || first.Name != "Barbell Bench Press 1" {
		t.Errorf("first step = %+v", first)
	}
	if first.Notes != "Original Name: Bench" {
		t.Errorf("notes = %q", first.Notes)
	}
	if summary.Steps[1].Reps != 6 {
		t.Errorf("second step reps = %d", summary.Steps[1].Reps)
	}
	if open := summary.Steps[2]; open.Reps != 0 || open.Category != typedef.ExerciseCategoryPlank {
		t.Errorf("open step = %+v", open)
	}
}

func TestGenerateWorkoutFile_EmptyDay(t *testing.T) {
	result, err := GenerateWorkoutFile(workout.DayPayload{Workout: workout.Workout{Title: "Week 1-Day 3"}}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := DecodeWorkoutFile(result)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(summary.Steps))
	}
}

func TestGenerateWorkoutFile_NoTitle(t *testing.T) {
	if _, err := GenerateWorkoutFile(workout.DayPayload{}, time.Now()); err == nil {
		t.Error("expected error for untitled workout")
	}
}

func TestMapExerciseToCategory(t *testing.T) {
	tests := []struct {
		name string
		want typedef.ExerciseCategory
	}{
		{"Barbell Bench Press", typedef.ExerciseCategoryBenchPress},
		{"Romanian Deadlift", typedef.ExerciseCategoryDeadlift},
		{"Bulgarian Split Squat", typedef.ExerciseCategoryLunge},
		{"Barbell Back Squat", typedef.ExerciseCategorySquat},
		{"Seated Leg Curl", typedef.ExerciseCategoryLegCurl},
		{"Dumbbell Bicep Curl", typedef.ExerciseCategoryCurl},
		{"Bent Over Row", typedef.ExerciseCategoryRow},
		{"Farmer Carry", typedef.ExerciseCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapExerciseToCategory(tt.name); got != tt.want {
				t.Errorf("MapExerciseToCategory(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
