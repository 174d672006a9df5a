package phase

import (
	"encoding/json"
	"fmt"
)

// Profile is the immutable behavior descriptor for one phase's conversation:
// the instructions the model must follow and the orchestration hints the
// turn handler reads. Resolved once per turn through Select.
type Profile struct {
	Phase        Phase
	Name         string
	SystemPrompt string

	// Interactive phases run a free-form model turn; non-interactive ones
	// are handled by a dedicated controller or a static acknowledgement.
	Interactive bool

	// InjectAllSummaries widens the context payload from "previous phase
	// summary only" to every prior phase summary.
	InjectAllSummaries bool
}

var profiles = map[Phase]Profile{
	Ideation: {
		Phase:        Ideation,
		Name:         "Ideation",
		SystemPrompt: ideationPrompt,
		Interactive:  true,
	},
	FeatureMapping: {
		Phase:        FeatureMapping,
		Name:         "Feature Mapping",
		SystemPrompt: featureMappingPrompt,
		Interactive:  true,
	},
	Design: {
		Phase:              Design,
		Name:               "Design",
		SystemPrompt:       designPrompt,
		Interactive:        false, // owned by the step controller
		InjectAllSummaries: true,
	},
	DocumentGeneration: {
		Phase:              DocumentGeneration,
		Name:               "Document Generation",
		SystemPrompt:       documentGenerationPrompt,
		Interactive:        false, // handled by the assembly pipeline
		InjectAllSummaries: true,
	},
	Export: {
		Phase:              Export,
		Name:               "Export",
		SystemPrompt:       exportPrompt,
		Interactive:        true,
		InjectAllSummaries: true,
	},
}

// Select resolves the behavior profile for a phase.
func Select(p Phase) (Profile, error) {
	profile, ok := profiles[p]
	if !ok {
		return Profile{}, fmt.Errorf("no behavior profile for phase %d", int(p))
	}
	return profile, nil
}

// RenderSystemPrompt appends the session context payload to the profile's
// instruction text.
func (p Profile) RenderSystemPrompt(context map[string]interface{}) string {
	if len(context) == 0 {
		return p.SystemPrompt
	}
	payload, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return p.SystemPrompt
	}
	return p.SystemPrompt + "\n\nProject Context:\n" + string(payload)
}
