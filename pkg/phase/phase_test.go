package phase

import (
	"strings"
	"testing"
)

func TestPhaseProgression(t *testing.T) {
	if Ideation.Next() != FeatureMapping || DocumentGeneration.Next() != Export {
		t.Error("Next must step one phase forward")
	}
	for p := Ideation; p <= Export; p++ {
		if !p.Valid() {
			t.Errorf("phase %d should be valid", int(p))
		}
	}
	if Phase(0).Valid() || Phase(6).Valid() {
		t.Error("out-of-range phases must be invalid")
	}
}

func TestAutoAdvanceIsLimitedToLatePhases(t *testing.T) {
	tests := []struct {
		p    Phase
		want bool
	}{
		{Ideation, false},
		{FeatureMapping, false},
		{Design, false},
		{DocumentGeneration, true},
		{Export, true},
	}
	for _, tt := range tests {
		if got := tt.p.AutoAdvances(); got != tt.want {
			t.Errorf("AutoAdvances(%s) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSelectProfiles(t *testing.T) {
	for p := Ideation; p <= Export; p++ {
		profile, err := Select(p)
		if err != nil {
			t.Fatalf("Select(%s): %v", p, err)
		}
		if profile.Phase != p {
			t.Errorf("profile phase = %s, want %s", profile.Phase, p)
		}
		if profile.SystemPrompt == "" {
			t.Errorf("phase %s has an empty system prompt", p)
		}
	}

	if _, err := Select(Phase(9)); err == nil {
		t.Error("invalid phase must not select a profile")
	}
}

func TestRenderSystemPromptInjectsContext(t *testing.T) {
	profile, err := Select(Ideation)
	if err != nil {
		t.Fatal(err)
	}

	rendered := profile.RenderSystemPrompt(map[string]interface{}{
		"project_name":   "Tracker",
		"search_results": "1. Streaks - habit app",
	})
	if !strings.Contains(rendered, "Tracker") {
		t.Error("project name missing from rendered prompt")
	}
	if !strings.Contains(rendered, "Streaks") {
		t.Error("search context missing from rendered prompt")
	}
}
