package reconcile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
	"github.com/ripixel/fitglue-importer/pkg/textnorm"
)

// AliasTable maps an alias key (lowercase) to the canonical name it stands
// for. The value is fed back into the semantic index, so it only needs to be
// close to a catalog name, not identical to one.
type AliasTable map[string]string

// abbreviations are expanded before fuzzy scoring so "db row" and
// "dumbbell row" compare equal.
var abbreviations = map[string]string{
	"db":   "dumbbell",
	"bb":   "barbell",
	"kb":   "kettlebell",
	"ohp":  "overhead press",
	"rdl":  "romanian deadlift",
	"sldl": "stiff leg deadlift",
	"incl": "incline",
	"decl": "decline",
	"ext":  "extension",
}

// DefaultAliasTable returns a fresh copy of the built-in alias table.
func DefaultAliasTable() AliasTable {
	t := make(AliasTable, len(defaultAliases))
	for k, v := range defaultAliases {
		t[k] = v
	}
	return t
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliasTable reads a YAML override file and merges it over the defaults.
// Keys are lowercased and trimmed; an override with an empty value removes
// the default entry.
//
//	aliases:
//	  skullcrusher: Lying Triceps Extension
//	  jm press: ""
func LoadAliasTable(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidationError, "failed to read alias table").
			WithMetadata("path", path)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidationError, "failed to parse alias table").
			WithMetadata("path", path)
	}

	table := DefaultAliasTable()
	for k, v := range f.Aliases {
		key := textnorm.Normalize(k)
		if key == "" {
			return nil, apperrors.New(apperrors.CodeValidationError, fmt.Sprintf("alias table %s: empty key", path))
		}
		if strings.TrimSpace(v) == "" {
			delete(table, key)
			continue
		}
		table[key] = strings.TrimSpace(v)
	}
	return table, nil
}

var defaultAliases = AliasTable{
	// chest
	"flat bench": "Bench Press",
	"barbell bench press": "Bench Press",
	"bb bench": "Bench Press",
	"chest press": "Bench Press",
	"flat bench press": "Bench Press",
	"incline press": "Incline Bench Press",
	"incline barbell press": "Incline Bench Press",
	"incline bb press": "Incline Bench Press",
	"decline press": "Decline Bench Press",
	"decline barbell press": "Decline Bench Press",
	"db bench": "Dumbbell Bench Press",
	"db bench press": "Dumbbell Bench Press",
	"dumbbell press": "Dumbbell Bench Press",
	"flat db press": "Dumbbell Bench Press",
	"incline db press": "Incline Dumbbell Press",
	"incline dumbbell bench press": "Incline Dumbbell Press",
	"dumbbell fly": "Chest Fly",
	"db fly": "Chest Fly",
	"pec fly": "Chest Fly",
	"chest flye": "Chest Fly",
	"flyes": "Chest Fly",
	"cable crossover": "Cable Fly",
	"cable chest fly": "Cable Fly",
	"low cable fly": "Cable Fly",
	"high cable fly": "Cable Fly",
	"pushup": "Push Up",
	"push-up": "Push Up",
	"press up": "Push Up",
	"chest dip": "Dip",
	"parallel bar dip": "Dip",
	"dips": "Dip",
	"chest press machine": "Machine Chest Press",
	"seated chest press": "Machine Chest Press",
	// back
	"conventional deadlift": "Deadlift",
	"barbell deadlift": "Deadlift",
	"bb deadlift": "Deadlift",
	"rdl": "Romanian Deadlift",
	"stiff leg deadlift": "Romanian Deadlift",
	"sldl": "Romanian Deadlift",
	"romanian deadlift (dumbbell)": "Romanian Deadlift",
	"romanian deadlift (barbell)": "Romanian Deadlift",
	"pullup": "Pull Up",
	"pull-up": "Pull Up",
	"wide grip pull up": "Pull Up",
	"chinup": "Chin Up",
	"chin-up": "Chin Up",
	"close grip pull up": "Chin Up",
	"lat pull down": "Lat Pulldown",
	"cable pulldown": "Lat Pulldown",
	"wide grip pulldown": "Lat Pulldown",
	"barbell row": "Bent Over Row",
	"bb row": "Bent Over Row",
	"bent over barbell row": "Bent Over Row",
	"bent over row (barbell)": "Bent Over Row",
	"bent over row (dumbbell)": "Bent Over Row",
	"db row": "Dumbbell Row",
	"one arm row": "Dumbbell Row",
	"single arm row": "Dumbbell Row",
	"one arm dumbbell row": "Dumbbell Row",
	"cable row": "Seated Cable Row",
	"seated row": "Seated Cable Row",
	"low row": "Seated Cable Row",
	"t bar row": "T-Bar Row",
	"landmine row": "T-Bar Row",
	"cable face pull": "Face Pull",
	"rope face pull": "Face Pull",
	"barbell shrug": "Shrug",
	"dumbbell shrug": "Shrug",
	"db shrug": "Shrug",
	"trap shrug": "Shrug",
	"shrugs": "Shrug",
	"hyperextension": "Back Extension",
	"back raise": "Back Extension",
	"lower back extension": "Back Extension",
	// shoulder
	"ohp": "Overhead Press",
	"military press": "Overhead Press",
	"shoulder press": "Overhead Press",
	"standing press": "Overhead Press",
	"barbell overhead press": "Overhead Press",
	"overhead press (barbell)": "Overhead Press",
	"db shoulder press": "Dumbbell Shoulder Press",
	"seated dumbbell press": "Dumbbell Shoulder Press",
	"overhead press (dumbbell)": "Dumbbell Shoulder Press",
	"arnold dumbbell press": "Arnold Press",
	"side raise": "Lateral Raise",
	"dumbbell lateral raise": "Lateral Raise",
	"db lateral raise": "Lateral Raise",
	"lateral raise (dumbbell)": "Lateral Raise",
	"side lateral raise": "Lateral Raise",
	"dumbbell front raise": "Front Raise",
	"db front raise": "Front Raise",
	"front delt raise": "Front Raise",
	"reverse fly": "Rear Delt Fly",
	"rear fly": "Rear Delt Fly",
	"bent over fly": "Rear Delt Fly",
	"rear delt raise": "Rear Delt Fly",
	"barbell upright row": "Upright Row",
	"dumbbell upright row": "Upright Row",
	"plank shoulder taps": "Shoulder Taps",
	// biceps
	"dumbbell curl": "Bicep Curl",
	"db curl": "Bicep Curl",
	"arm curl": "Bicep Curl",
	"standing curl": "Bicep Curl",
	"bicep curl (dumbbell)": "Bicep Curl",
	"bicep curl (barbell)": "Bicep Curl",
	"bb curl": "Barbell Curl",
	"straight bar curl": "Barbell Curl",
	"dumbbell hammer curl": "Hammer Curl",
	"db hammer curl": "Hammer Curl",
	"neutral grip curl": "Hammer Curl",
	"ez bar preacher curl": "Preacher Curl",
	"dumbbell preacher curl": "Preacher Curl",
	"scott curl": "Preacher Curl",
	"seated concentration curl": "Concentration Curl",
	"cable bicep curl": "Cable Curl",
	"rope curl": "Cable Curl",
	// triceps
	"overhead tricep extension": "Tricep Extension",
	"dumbbell tricep extension": "Tricep Extension",
	"triceps extension": "Tricep Extension",
	"cable pushdown": "Tricep Pushdown",
	"rope pushdown": "Tricep Pushdown",
	"tricep rope pushdown": "Tricep Pushdown",
	"triceps pushdown": "Tricep Pushdown",
	"lying tricep extension": "Skull Crusher",
	"ez bar skull crusher": "Skull Crusher",
	"skullcrusher": "Skull Crusher",
	"bench dip": "Tricep Dip",
	"chair dip": "Tricep Dip",
	"triceps dip": "Tricep Dip",
	"cgbp": "Close Grip Bench Press",
	"narrow grip bench": "Close Grip Bench Press",
	"dumbbell kickback": "Tricep Kickback",
	"db kickback": "Tricep Kickback",
	"triceps kickback": "Tricep Kickback",
	"triceps kickback (dumbbell)": "Tricep Kickback",
	// quadriceps
	"back squat": "Squat",
	"barbell squat": "Squat",
	"bb squat": "Squat",
	"squat (barbell)": "Squat",
	"barbell front squat": "Front Squat",
	"kettlebell goblet squat": "Goblet Squat",
	"dumbbell goblet squat": "Goblet Squat",
	"machine leg press": "Leg Press",
	"45 degree leg press": "Leg Press",
	"machine leg extension": "Leg Extension",
	"quad extension": "Leg Extension",
	"walking lunge": "Lunge",
	"dumbbell lunge": "Lunge",
	"barbell lunge": "Lunge",
	"lunge (dumbbell)": "Lunge",
	"lunge (barbell)": "Lunge",
	"forward lunge": "Lunge",
	"walking lunge (dumbbell)": "Walking Lunge",
	"walking lunge (barbell)": "Walking Lunge",
	"db walking lunge": "Walking Lunge",
	"split squat": "Bulgarian Split Squat",
	"rear foot elevated split squat": "Bulgarian Split Squat",
	"machine hack squat": "Hack Squat",
	"wall squat": "Wall Sit",
	"wall hold": "Wall Sit",
	"sumo squat (kettlebell)": "Sumo Squat",
	"wide stance squat": "Sumo Squat",
	"plie squat": "Sumo Squat",
	"curtsy lunge (dumbbell)": "Curtsy Lunge",
	"curtsey lunge": "Curtsy Lunge",
	// hamstrings/glutes
	"lying leg curl": "Leg Curl",
	"seated leg curl": "Leg Curl",
	"hamstring curl": "Leg Curl",
	"machine leg curl": "Leg Curl",
	"barbell hip thrust": "Hip Thrust",
	"glute bridge": "Hip Thrust",
	"weighted glute bridge": "Hip Thrust",
	"cable kickback": "Glute Kickback",
	"donkey kick": "Glute Kickback",
	"glute kickback (cable)": "Glute Kickback",
	"barbell good morning": "Good Morning",
	// calves
	"standing calf raise": "Calf Raise",
	"seated calf raise": "Calf Raise",
	"machine calf raise": "Calf Raise",
	"calf press": "Calf Raise",
	// core
	"ab crunch": "Crunch",
	"abdominal crunch": "Crunch",
	"sit up": "Crunch",
	"situp": "Crunch",
	"front plank": "Plank",
	"forearm plank": "Plank",
	"high plank": "Plank",
	"russian twist (weighted)": "Russian Twist",
	"seated russian twist": "Russian Twist",
	"lying leg raise": "Leg Raise",
	"hanging leg raise": "Leg Raise",
	"leg raises": "Leg Raise",
	"mountain climbers": "Mountain Climber",
	"bicycle": "Bicycle Crunch",
	"elbow to knee": "Bicycle Crunch",
	"dead bugs": "Dead Bug",
	"heel touches": "Heel Taps",
	"alternating heel taps": "Heel Taps",
	"ab wheel": "Ab Wheel Rollout",
	"rollout": "Ab Wheel Rollout",
	// full body / compound
	"kb swing": "Kettlebell Swing",
	"russian swing": "Kettlebell Swing",
	"american swing": "Kettlebell Swing",
	"burpees": "Burpee",
	"burpee box jump": "Burpee",
	"clean & press": "Clean and Press",
	"power clean and press": "Clean and Press",
	"thrusters": "Thruster",
	"barbell thruster": "Thruster",
	"dumbbell thruster": "Thruster",
	"power snatch": "Snatch",
	"barbell snatch": "Snatch",
	"dumbbell snatch": "Snatch",
	"kb snatch": "Snatch",
	"farmer's walk": "Farmers Walk",
	"farmer carry": "Farmers Walk",
	"farmers carry": "Farmers Walk",
	"loaded carry": "Farmers Walk",
	"battle rope": "Battle Ropes",
	"rope slams": "Battle Ropes",
	"rope waves": "Battle Ropes",
	// cardio
	"run": "Running",
	"jogging": "Running",
	"jog": "Running",
	"treadmill run": "Running",
	"treadmill": "Running",
	"row": "Rowing",
	"rowing machine": "Rowing",
	"erg": "Rowing",
	"ergometer": "Rowing",
	"bike": "Cycling",
	"cycling machine": "Cycling",
	"stationary bike": "Cycling",
	"spin": "Cycling",
	"jumping jacks": "Jumping Jack",
	"star jumps": "Jumping Jack",
	// forearm
	"barbell wrist curl": "Wrist Curl",
	"dumbbell wrist curl": "Wrist Curl",
	"reverse wrist curl": "Wrist Curl",
}
