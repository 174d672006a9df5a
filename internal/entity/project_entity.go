package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/phase"
)

type Project struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Name           string
	Description    string
	CurrentPhase   phase.Phase
	Canvas         canvas.Graph
	PhaseSummaries map[int]map[string]interface{}
	Design         DesignState
	PrdDraft       DocumentDraft
	SearchUsage    map[int]int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// DocumentDraft accumulates rendered PRD sections ahead of final assembly.
// Sections are keyed by section number; GeneratedPhases records which phase
// completions have contributed sections so far.
type DocumentDraft struct {
	Sections        map[int]string `json:"sections,omitempty"`
	GeneratedPhases []int          `json:"generatedPhases,omitempty"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
}

// Section returns the rendered text for a section, if present.
func (d *DocumentDraft) Section(section int) (string, bool) {
	text, ok := d.Sections[section]
	return text, ok
}

// SetSection writes one rendered section and stamps the draft.
func (d *DocumentDraft) SetSection(section int, text string) {
	if d.Sections == nil {
		d.Sections = make(map[int]string)
	}
	d.Sections[section] = text
	now := time.Now()
	d.UpdatedAt = &now
}

// MarkPhase records that a phase's sections have been generated.
func (d *DocumentDraft) MarkPhase(phaseNum int) {
	for _, p := range d.GeneratedPhases {
		if p == phaseNum {
			return
		}
	}
	d.GeneratedPhases = append(d.GeneratedPhases, phaseNum)
}

// PaletteOption is one selectable color set in the design flow.
type PaletteOption struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// StyleOption is one selectable design style in the design flow.
type StyleOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DesignState tracks the guided design flow for one project. Step is the
// monotonic counter; the remaining fields accumulate the user's choices.
type DesignState struct {
	Step                  int                 `json:"step"`
	ComplementaryOptions  []string            `json:"complementaryOptions,omitempty"`
	SelectedComplementary []string            `json:"selectedComplementary,omitempty"`
	Theme                 string              `json:"theme,omitempty"`
	PaletteOptions        []PaletteOption     `json:"paletteOptions,omitempty"`
	Palette               *PaletteOption      `json:"palette,omitempty"`
	StyleOptions          []StyleOption       `json:"styleOptions,omitempty"`
	Style                 *StyleOption        `json:"style,omitempty"`
	Guidelines            []string            `json:"guidelines,omitempty"`
	TechStack             map[string][]string `json:"techStack,omitempty"`
	Completed             bool                `json:"completed,omitempty"`
}
