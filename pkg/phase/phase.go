package phase

import "fmt"

// Phase is one of the five sequential stages of a guided session.
type Phase int

const (
	Ideation           Phase = 1
	FeatureMapping     Phase = 2
	Design             Phase = 3
	DocumentGeneration Phase = 4
	Export             Phase = 5
)

func (p Phase) Valid() bool {
	return p >= Ideation && p <= Export
}

func (p Phase) String() string {
	switch p {
	case Ideation:
		return "ideation"
	case FeatureMapping:
		return "feature-mapping"
	case Design:
		return "design"
	case DocumentGeneration:
		return "document-generation"
	case Export:
		return "export"
	}
	return fmt.Sprintf("phase-%d", int(p))
}

// Next returns the following phase. Calling Next on Export is invalid and
// callers must reject it before getting here.
func (p Phase) Next() Phase {
	return p + 1
}

// AutoAdvances reports whether a phase-complete directive may move the
// session forward on its own. Phases 1-3 gather data interactively and only
// advance on an explicit request; phases 4-5 are administrative.
func (p Phase) AutoAdvances() bool {
	return p >= DocumentGeneration
}
