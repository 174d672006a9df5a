package docgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The PRD is assembled from four independently generated sections. Each
// section's prompt reads only the phase summaries it needs, so sections can
// be pre-generated in the background as soon as their inputs exist.
const (
	SectionOverview     = 1
	SectionCoreFeatures = 2
	SectionArchitecture = 3
	SectionDesignGuide  = 4

	SectionCount = 4
)

// SectionSeparator is the visible divider between assembled sections.
const SectionSeparator = "\n\n---\n\n"

// Input carries everything the section prompt builders may read.
type Input struct {
	ProjectName string
	// Summaries maps phase number to that phase's persisted summary payload.
	Summaries map[int]map[string]interface{}
	// TechStack is the canvas-derived technology recommendation (phase 3).
	TechStack map[string]interface{}
}

// requiredPhases lists which phase summaries a section depends on.
var requiredPhases = map[int][]int{
	SectionOverview:     {1},
	SectionCoreFeatures: {1, 2, 3},
	SectionArchitecture: {1, 2, 3},
	SectionDesignGuide:  {3},
}

// RequiredPhases returns the phase summaries a section needs.
func RequiredPhases(section int) []int {
	return requiredPhases[section]
}

// SectionsReadyAfter returns the sections whose inputs become complete when
// the given phase finishes, i.e. the background pre-generation triggers.
// Section 4 is deliberately absent: it is cheap and always generated fresh
// at assembly time against the final tech stack.
func SectionsReadyAfter(completedPhase int) []int {
	switch completedPhase {
	case 1:
		return []int{SectionOverview}
	case 3:
		return []int{SectionCoreFeatures, SectionArchitecture}
	}
	return nil
}

// PhaseFor returns the phase whose completion produces a section: the
// inverse of SectionsReadyAfter, with section 4 attributed to the document
// generation phase where it is rendered.
func PhaseFor(section int) int {
	switch section {
	case SectionOverview:
		return 1
	case SectionCoreFeatures, SectionArchitecture:
		return 3
	case SectionDesignGuide:
		return 4
	}
	return 0
}

// BuildSectionPrompt renders the generation prompt for one section.
func BuildSectionPrompt(section int, in Input) (string, error) {
	switch section {
	case SectionOverview:
		return overviewPrompt(in), nil
	case SectionCoreFeatures:
		return coreFeaturesPrompt(in), nil
	case SectionArchitecture:
		return architecturePrompt(in), nil
	case SectionDesignGuide:
		return designGuidePrompt(in), nil
	}
	return "", fmt.Errorf("unknown document section %d", section)
}

// Assemble concatenates the four generated sections beneath a title line.
func Assemble(projectName string, sections map[int]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s - PRD", projectName))
	for i := 1; i <= SectionCount; i++ {
		b.WriteString(SectionSeparator)
		b.WriteString(strings.TrimSpace(sections[i]))
	}
	return b.String()
}

func summaryBlock(in Input, phases ...int) string {
	var b strings.Builder
	for _, p := range phases {
		summary, ok := in.Summaries[p]
		if !ok {
			continue
		}
		payload, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\nPhase %d summary:\n%s\n", p, payload))
	}
	return b.String()
}

func overviewPrompt(in Input) string {
	return fmt.Sprintf(`Write the "## Overview" section of a PRD for the product "%s" (2-3 paragraphs):
- Problem statement
- Solution overview
- Target users

Base it strictly on this ideation summary:
%s
Output markdown only, starting with the "## Overview" heading.`, in.ProjectName, summaryBlock(in, 1))
}

func coreFeaturesPrompt(in Input) string {
	return fmt.Sprintf(`Write the "## Core Features" section of a PRD for the product "%s".
For EACH feature include:
### [Feature Name]
**Purpose**: What problem it solves
**User Flow**: Step-by-step user journey (numbered)
**Functional Requirements**: bullet list
**Edge Cases**: bullet list with handling
**Success Metrics**: How to measure success

Base it strictly on these phase summaries:
%s
Output markdown only, starting with the "## Core Features" heading.`, in.ProjectName, summaryBlock(in, 1, 2, 3))
}

func architecturePrompt(in Input) string {
	stack := ""
	if in.TechStack != nil {
		if payload, err := json.MarshalIndent(in.TechStack, "", "  "); err == nil {
			stack = fmt.Sprintf("\nRecommended technology stack:\n%s\n", payload)
		}
	}
	return fmt.Sprintf(`Write the "## Technical Architecture" section of a PRD for the product "%s":
- Frontend approach
- Backend architecture
- Database schema (detailed with relationships)
- API endpoints needed
- Third-party integrations

Base it strictly on these phase summaries:
%s%s
Output markdown only, starting with the "## Technical Architecture" heading.`, in.ProjectName, summaryBlock(in, 1, 2, 3), stack)
}

func designGuidePrompt(in Input) string {
	stack := ""
	if in.TechStack != nil {
		if payload, err := json.MarshalIndent(in.TechStack, "", "  "); err == nil {
			stack = fmt.Sprintf("\nFinal technology stack:\n%s\n", payload)
		}
	}
	return fmt.Sprintf(`Write the "## Design & Implementation Guidelines" section of a PRD for the product "%s":
- Visual design system (theme, palette, style)
- Design guidelines for developers
- Implementation phases (what to build first, next, last)

Base it strictly on this design summary:
%s%s
Output markdown only, starting with the "## Design & Implementation Guidelines" heading.`, in.ProjectName, summaryBlock(in, 3), stack)
}
