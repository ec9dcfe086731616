package reconcile

import "testing"

func TestFuzzProcess_ExpandsAbbreviations(t *testing.T) {
	if got := fuzzProcess("DB Row (1-arm)"); got != "dumbbell row 1 arm" {
		t.Errorf("got %q", got)
	}
}

func TestFuzzProcess_LeavesQualifiedNamesAlone(t *testing.T) {
	tests := map[string]string{
		"EZ Bar Curl":    "ez bar curl",
		"Lat Pull Down":  "lat pull down",
		"Lateral Raises": "lateral raises",
	}
	for in, want := range tests {
		if got := fuzzProcess(in); got != want {
			t.Errorf("fuzzProcess(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWeightedRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"flat bench", "flat bench", 100},
		{"bench press", "bench press wide", 95},
		{"bench press", "press bench", 95},
		{"row", "row one", 90},
		{"skull crushers", "skull crusher", 96},
		{"lateral raises", "lateral raise", 96},
		{"goblet squats", "goblet squat", 96},
		{"push ups", "push up", 93},
		{"a", "abcdefgh", 90},
		{"a", "abcdefghi", 60},
		{"", "anything", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			if got := weightedRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("weightedRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := weightedRatio(tt.b, tt.a); got != tt.want {
				t.Errorf("weightedRatio is not symmetric for %q, %q", tt.a, tt.b)
			}
		})
	}
}
