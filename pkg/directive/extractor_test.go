package directive

import (
	"strings"
	"testing"
)

func TestExtractCanvasBlocks(t *testing.T) {
	text := `Adding Meal Planner to your canvas...
[UPDATE_CANVAS]
{"action": "add_node", "node": {"id": "feature-1", "type": "feature", "data": {"label": "Meal Planner"}, "parentId": "root"}}
[/UPDATE_CANVAS]
And a flow for it:
[UPDATE_CANVAS]
{"action": "add_node", "node": {"id": "userflow-1", "type": "user-flow", "data": {"label": "Plan a week"}, "parentId": "feature-1"}}
[/UPDATE_CANVAS]
Done.`

	result := Extract(text)

	updates := result.CanvasUpdates()
	if len(updates) != 2 {
		t.Fatalf("expected 2 canvas updates, got %d", len(updates))
	}
	if updates[0].Node.Id != "feature-1" || updates[1].Node.Id != "userflow-1" {
		t.Errorf("updates out of order: %q then %q", updates[0].Node.Id, updates[1].Node.Id)
	}
	if updates[1].Node.ParentId != "feature-1" {
		t.Errorf("ParentId = %q, want feature-1", updates[1].Node.ParentId)
	}
	if strings.Contains(result.Cleaned, "[") {
		t.Errorf("cleaned text still contains sentinel tokens: %q", result.Cleaned)
	}
	if !strings.Contains(result.Cleaned, "Adding Meal Planner") || !strings.Contains(result.Cleaned, "Done.") {
		t.Errorf("visible content lost: %q", result.Cleaned)
	}
}

func TestExtractMalformedBlockFailsOpen(t *testing.T) {
	text := `Before text
[UPDATE_CANVAS]
{not valid json
[/UPDATE_CANVAS]
After text`

	result := Extract(text)

	if len(result.CanvasUpdates()) != 0 {
		t.Fatalf("malformed block must yield zero directives, got %d", len(result.CanvasUpdates()))
	}
	// Non-tag content must survive byte-for-byte.
	if !strings.Contains(result.Cleaned, "Before text") || !strings.Contains(result.Cleaned, "After text") {
		t.Errorf("content lost: %q", result.Cleaned)
	}
	if !strings.Contains(result.Cleaned, "{not valid json") {
		t.Errorf("malformed payload must be left in place: %q", result.Cleaned)
	}
}

func TestExtractMalformedBlockDisablesKind(t *testing.T) {
	// A malformed block aborts extraction for that kind; the later
	// well-formed block is left untouched too.
	text := `[UPDATE_CANVAS]{bad[/UPDATE_CANVAS] middle [UPDATE_CANVAS]{"action":"add_node","node":{"id":"n1","type":"feature","data":{}}}[/UPDATE_CANVAS]`

	result := Extract(text)
	if len(result.CanvasUpdates()) != 0 {
		t.Fatalf("expected 0 updates after abort, got %d", len(result.CanvasUpdates()))
	}
	if !strings.Contains(result.Cleaned, "middle") {
		t.Errorf("content lost: %q", result.Cleaned)
	}
}

func TestExtractMissingCloseTag(t *testing.T) {
	text := "Reply text [UPDATE_CANVAS] {\"action\":\"add_node\"} and no close"
	result := Extract(text)
	if len(result.Directives) != 0 {
		t.Fatalf("expected no directives, got %d", len(result.Directives))
	}
	if result.Cleaned != text {
		t.Errorf("text must be unchanged, got %q", result.Cleaned)
	}
}

func TestExtractPhaseComplete(t *testing.T) {
	result := Extract("Ready to move on. [PHASE_COMPLETE]")
	if !result.PhaseComplete() {
		t.Fatal("PhaseComplete() = false, want true")
	}
	if result.Cleaned != "Ready to move on." {
		t.Errorf("Cleaned = %q", result.Cleaned)
	}
}

func TestExtractIdeationSummary(t *testing.T) {
	text := `Excellent, the concept is clear.
[IDEATION_COMPLETE]
{"core_problem": "meal planning takes too long", "pain_point": "decision fatigue", "target_audience": "busy parents", "current_solutions": "spreadsheets"}
[/IDEATION_COMPLETE]`

	result := Extract(text)
	if len(result.Directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(result.Directives))
	}
	d := result.Directives[0]
	if d.Kind != KindIdeationComplete || d.Ideation == nil {
		t.Fatalf("unexpected directive: %+v", d)
	}
	if d.Ideation.TargetAudience != "busy parents" {
		t.Errorf("TargetAudience = %q", d.Ideation.TargetAudience)
	}
}

func TestExtractFeaturesSummary(t *testing.T) {
	text := `[FEATURES_COMPLETE]{"features":[{"title":"Planner","subFeatures":["weekly view","drag and drop"]}]}[/FEATURES_COMPLETE] Features mapped.`

	result := Extract(text)
	if len(result.Directives) != 1 || result.Directives[0].Kind != KindFeaturesComplete {
		t.Fatalf("unexpected directives: %+v", result.Directives)
	}
	features := result.Directives[0].Features
	if len(features.Features) != 1 || len(features.Features[0].SubFeatures) != 2 {
		t.Errorf("unexpected summary: %+v", features)
	}
	if result.Cleaned != "Features mapped." {
		t.Errorf("Cleaned = %q", result.Cleaned)
	}
}

func TestExtractDownloadActions(t *testing.T) {
	tests := []struct {
		text   string
		format string
	}{
		{"Here you go [ACTION:DOWNLOAD_MD]", "md"},
		{"Here you go [ACTION:DOWNLOAD_PDF]", "pdf"},
	}
	for _, tt := range tests {
		result := Extract(tt.text)
		if len(result.Directives) != 1 || result.Directives[0].Kind != KindDownload {
			t.Fatalf("unexpected directives for %q: %+v", tt.text, result.Directives)
		}
		if result.Directives[0].Format != tt.format {
			t.Errorf("Format = %q, want %q", result.Directives[0].Format, tt.format)
		}
		if result.Cleaned != "Here you go" {
			t.Errorf("Cleaned = %q", result.Cleaned)
		}
	}
}

func TestExtractIdempotentOnCleanOutput(t *testing.T) {
	text := `Text [UPDATE_CANVAS]{"action":"add_node","node":{"id":"a","type":"feature","data":{}}}[/UPDATE_CANVAS] more [PHASE_COMPLETE]`

	first := Extract(text)
	second := Extract(first.Cleaned)

	if len(second.Directives) != 0 {
		t.Errorf("second pass produced directives: %+v", second.Directives)
	}
	if second.Cleaned != first.Cleaned {
		t.Errorf("second pass changed text: %q vs %q", second.Cleaned, first.Cleaned)
	}
}

func TestExtractPlainText(t *testing.T) {
	result := Extract("Just a normal reply with [brackets] but no tags.")
	if len(result.Directives) != 0 {
		t.Errorf("unexpected directives: %+v", result.Directives)
	}
	if result.Cleaned != "Just a normal reply with [brackets] but no tags." {
		t.Errorf("Cleaned = %q", result.Cleaned)
	}
}
