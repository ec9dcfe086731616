package textnorm

import "testing"

func TestStripAnnotations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bench Press (paused)", "Bench Press"},
		{"Squat [A1]", "Squat"},
		{"  Row (3s eccentric) [B2]  ", "Row"},
		{"Curl (see [note] here) x", "Curl  x"},
		{"Press [a] middle (b) end", "Press  middle  end"},
		{"Deadlift", "Deadlift"},
		{"(only annotation)", ""},
		{"Unclosed (paren", "Unclosed (paren"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripAnnotations(tt.in); got != tt.want {
				t.Errorf("StripAnnotations(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Barbell ROW \t"); got != "barbell row" {
		t.Errorf("got %q", got)
	}
}

func TestPreprocessForEmbedding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Push-Up", "pushup"},
		{"Dumbbell  Bench   Press!", "dumbbell bench press"},
		{"Développé couché", "developpe couche"},
		{"  90/90 Hip Switch ", "9090 hip switch"},
		{"", ""},
		{"***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := PreprocessForEmbedding(tt.in)
			if got != tt.want {
				t.Errorf("PreprocessForEmbedding(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := PreprocessForEmbedding(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}
