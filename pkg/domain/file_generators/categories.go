package file_generators

import (
	"strings"

	"github.com/muktihari/fit/profile/typedef"
)

// categoryKeywords is checked in order; the first keyword found in the
// lowercased exercise name wins. Longer phrases come before the words they
// contain.
var categoryKeywords = []struct {
	keyword  string
	category typedef.ExerciseCategory
}{
	{"bench press", typedef.ExerciseCategoryBenchPress},
	{"chest press", typedef.ExerciseCategoryBenchPress},
	{"romanian deadlift", typedef.ExerciseCategoryDeadlift},
	{"deadlift", typedef.ExerciseCategoryDeadlift},
	{"leg curl", typedef.ExerciseCategoryLegCurl},
	{"hamstring curl", typedef.ExerciseCategoryLegCurl},
	{"calf raise", typedef.ExerciseCategoryCalfRaise},
	{"lateral raise", typedef.ExerciseCategoryLateralRaise},
	{"leg raise", typedef.ExerciseCategoryLegRaise},
	{"hip thrust", typedef.ExerciseCategoryHipRaise},
	{"glute bridge", typedef.ExerciseCategoryHipRaise},
	{"shoulder press", typedef.ExerciseCategoryShoulderPress},
	{"overhead press", typedef.ExerciseCategoryShoulderPress},
	{"military press", typedef.ExerciseCategoryShoulderPress},
	{"triceps", typedef.ExerciseCategoryTricepsExtension},
	{"tricep", typedef.ExerciseCategoryTricepsExtension},
	{"skull crusher", typedef.ExerciseCategoryTricepsExtension},
	{"pull up", typedef.ExerciseCategoryPullUp},
	{"pull-up", typedef.ExerciseCategoryPullUp},
	{"chin up", typedef.ExerciseCategoryPullUp},
	{"pulldown", typedef.ExerciseCategoryPullUp},
	{"push up", typedef.ExerciseCategoryPushUp},
	{"push-up", typedef.ExerciseCategoryPushUp},
	{"split squat", typedef.ExerciseCategoryLunge},
	{"squat", typedef.ExerciseCategorySquat},
	{"leg press", typedef.ExerciseCategorySquat},
	{"lunge", typedef.ExerciseCategoryLunge},
	{"row", typedef.ExerciseCategoryRow},
	{"curl", typedef.ExerciseCategoryCurl},
	{"fly", typedef.ExerciseCategoryFlye},
	{"flye", typedef.ExerciseCategoryFlye},
	{"shrug", typedef.ExerciseCategoryShrug},
	{"plank", typedef.ExerciseCategoryPlank},
	{"crunch", typedef.ExerciseCategoryCrunch},
	{"sit up", typedef.ExerciseCategorySitUp},
	{"hyperextension", typedef.ExerciseCategoryHyperextension},
	{"dip", typedef.ExerciseCategoryTricepsExtension},
}

// MapExerciseToCategory picks the FIT exercise category for a canonical
// exercise name.
func MapExerciseToCategory(name string) typedef.ExerciseCategory {
	lower := strings.ToLower(name)
	for _, k := range categoryKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.category
		}
	}
	return typedef.ExerciseCategoryUnknown
}
