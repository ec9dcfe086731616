package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

func TestAliasResolver_Resolve(t *testing.T) {
	r := NewAliasResolver(AliasTable{
		"skull crusher": "Lying Triceps Extension",
		"chest press":   "Bench Press",
		"row one":       "Seated Row",
		"row two":       "Bent Over Row",
		"lat pull down": "Lat Pulldown",
		"lateral raise": "Lateral Raise",
	})

	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue string
		wantScore int
	}{
		{"exact", "skull crusher", "skull crusher", "Lying Triceps Extension", 100},
		{"plural reaches the alias threshold", "skull crushers", "skull crusher", "Lying Triceps Extension", 96},
		{"lat pulldown is not a lateral raise", "lat pull down", "lat pull down", "Lat Pulldown", 100},
		{"tie goes to smallest key", "row", "row one", "Seated Row", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Resolve(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Key != tt.wantKey || m.Value != tt.wantValue || m.Score != tt.wantScore {
				t.Errorf("Resolve(%q) = %+v, want key=%q value=%q score=%d", tt.input, m, tt.wantKey, tt.wantValue, tt.wantScore)
			}
		})
	}
}

func TestAliasResolver_AlwaysReturnsBest(t *testing.T) {
	r := NewAliasResolver(AliasTable{"b": "X", "a": "Y"})
	m, err := r.Resolve("zzz")
	if err != nil {
		t.Fatal(err)
	}
	if m.Key != "a" || m.Score != 0 {
		t.Errorf("got %+v, want key a with score 0", m)
	}
}

func TestAliasResolver_Empty(t *testing.T) {
	_, err := NewAliasResolver(AliasTable{}).Resolve("bench")
	if !apperrors.HasCode(err, apperrors.CodeAliasResolution) {
		t.Errorf("expected ALIAS_RESOLUTION_FAILED, got %v", err)
	}
}

func TestAliasResolver_ScoreBounds(t *testing.T) {
	r := NewAliasResolver(DefaultAliasTable())
	for _, in := range []string{"", "x", "db bench", "a very long exercise name that matches nothing at all"} {
		m, err := r.Resolve(in)
		if err != nil {
			t.Fatal(err)
		}
		if m.Score < 0 || m.Score > 100 {
			t.Errorf("Resolve(%q) score %d out of range", in, m.Score)
		}
	}
}

func TestDefaultAliasTable_AbbreviationHit(t *testing.T) {
	r := NewAliasResolver(DefaultAliasTable())
	m, err := r.Resolve("db bench press")
	if err != nil {
		t.Fatal(err)
	}
	if m.Score != 100 || m.Value != "Dumbbell Bench Press" {
		t.Errorf("got %+v", m)
	}
}

func TestDefaultAliasTable_ReturnsCopy(t *testing.T) {
	a := DefaultAliasTable()
	delete(a, "flat bench")
	if _, ok := DefaultAliasTable()["flat bench"]; !ok {
		t.Error("DefaultAliasTable must return an independent copy")
	}
}

func TestLoadAliasTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	body := "aliases:\n  \"  Skullcrusher \": Lying Triceps Extension\n  flat bench: \"\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadAliasTable(path)
	if err != nil {
		t.Fatalf("LoadAliasTable: %v", err)
	}
	if table["skullcrusher"] != "Lying Triceps Extension" {
		t.Errorf("override not merged: %q", table["skullcrusher"])
	}
	if _, ok := table["flat bench"]; ok {
		t.Error("empty value should remove the default entry")
	}
	if table["bb bench"] != "Bench Press" {
		t.Error("defaults should survive the merge")
	}

	if _, err := LoadAliasTable(filepath.Join(dir, "missing.yaml")); !apperrors.HasCode(err, apperrors.CodeValidationError) {
		t.Errorf("missing file: got %v", err)
	}
}
