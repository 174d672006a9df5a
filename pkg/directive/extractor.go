package directive

import (
	"encoding/json"
	"strings"
)

// ExtractResult contains the cleaned reply text and every directive that was
// successfully recovered, in the order the tags appeared.
type ExtractResult struct {
	Cleaned    string
	Directives []Directive
}

// PhaseComplete reports whether a PHASE_COMPLETE token was present.
func (r *ExtractResult) PhaseComplete() bool {
	for _, d := range r.Directives {
		if d.Kind == KindPhaseComplete {
			return true
		}
	}
	return false
}

// CanvasUpdates returns only the add-node payloads, in order.
func (r *ExtractResult) CanvasUpdates() []CanvasUpdate {
	var updates []CanvasUpdate
	for _, d := range r.Directives {
		if d.Kind == KindAddNode && d.Canvas != nil {
			updates = append(updates, *d.Canvas)
		}
	}
	return updates
}

// blockSpec describes a block-paired sentinel (open + close tag around JSON)
type blockSpec struct {
	open  string
	close string
	kind  Kind
}

var blockSpecs = []blockSpec{
	{TagUpdateCanvasOpen, TagUpdateCanvasClose, KindAddNode},
	{TagIdeationOpen, TagIdeationClose, KindIdeationComplete},
	{TagFeaturesOpen, TagFeaturesClose, KindFeaturesComplete},
}

// Extract scans a completion string for sentinel blocks and single tokens,
// removes every well-formed occurrence from the visible text, and returns the
// decoded directives in left-to-right order.
//
// Failure policy is fail-open: a block whose payload is not valid JSON (or
// whose close tag is missing) is left in the text byte-for-byte and yields no
// directive, and extraction for that sentinel kind stops so the remaining
// text is not modified. Extract never panics on malformed input and running
// it over its own cleaned output is a no-op.
func Extract(text string) *ExtractResult {
	result := &ExtractResult{Cleaned: text}

	// A malformed block disables its kind, so the text left in place is
	// never rescanned.
	disabled := map[Kind]bool{}

	for {
		spec, pos := nextBlock(result.Cleaned, disabled)
		if spec == nil {
			break
		}

		payload, end, ok := cutBlock(result.Cleaned, pos, spec.open, spec.close)
		if !ok {
			// No close tag. Treat as malformed: leave text untouched.
			disabled[spec.kind] = true
			continue
		}

		d, ok := decodePayload(spec.kind, payload)
		if !ok {
			disabled[spec.kind] = true
			continue
		}

		result.Directives = append(result.Directives, d)
		result.Cleaned = result.Cleaned[:pos] + result.Cleaned[end:]
	}

	// Single-token sentinels: detect presence, then strip.
	if strings.Contains(result.Cleaned, TagPhaseComplete) {
		result.Directives = append(result.Directives, Directive{Kind: KindPhaseComplete})
		result.Cleaned = strings.ReplaceAll(result.Cleaned, TagPhaseComplete, "")
	}
	if strings.Contains(result.Cleaned, TagActionDownloadMD) {
		result.Directives = append(result.Directives, Directive{Kind: KindDownload, Format: "md"})
		result.Cleaned = strings.ReplaceAll(result.Cleaned, TagActionDownloadMD, "")
	}
	if strings.Contains(result.Cleaned, TagActionDownloadPDF) {
		result.Directives = append(result.Directives, Directive{Kind: KindDownload, Format: "pdf"})
		result.Cleaned = strings.ReplaceAll(result.Cleaned, TagActionDownloadPDF, "")
	}

	result.Cleaned = strings.TrimSpace(result.Cleaned)
	return result
}

// nextBlock finds the earliest open tag among the enabled block kinds.
// Returns nil when no enabled open tag remains.
func nextBlock(text string, disabled map[Kind]bool) (*blockSpec, int) {
	var found *blockSpec
	foundPos := -1
	for i := range blockSpecs {
		spec := &blockSpecs[i]
		if disabled[spec.kind] {
			continue
		}
		pos := strings.Index(text, spec.open)
		if pos == -1 {
			continue
		}
		if foundPos == -1 || pos < foundPos {
			found = spec
			foundPos = pos
		}
	}
	return found, foundPos
}

// cutBlock returns the payload between the open tag at pos and the next close
// tag, plus the index just past the close tag.
func cutBlock(text string, pos int, open, close string) (payload string, end int, ok bool) {
	inner := pos + len(open)
	rel := strings.Index(text[inner:], close)
	if rel == -1 {
		return "", 0, false
	}
	return strings.TrimSpace(text[inner : inner+rel]), inner + rel + len(close), true
}

func decodePayload(kind Kind, payload string) (Directive, bool) {
	switch kind {
	case KindAddNode:
		var update CanvasUpdate
		if err := json.Unmarshal([]byte(payload), &update); err != nil || update.Node.Id == "" {
			return Directive{}, false
		}
		return Directive{Kind: KindAddNode, Canvas: &update}, true
	case KindIdeationComplete:
		var summary IdeationSummary
		if err := json.Unmarshal([]byte(payload), &summary); err != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindIdeationComplete, Ideation: &summary}, true
	case KindFeaturesComplete:
		var summary FeaturesSummary
		if err := json.Unmarshal([]byte(payload), &summary); err != nil {
			return Directive{}, false
		}
		return Directive{Kind: KindFeaturesComplete, Features: &summary}, true
	}
	return Directive{}, false
}
