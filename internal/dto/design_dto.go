package dto

import (
	"github.com/google/uuid"

	"ai-productforge-be/internal/entity"
)

const (
	DesignStepKindMultiSelect  = "multi_select"
	DesignStepKindBinary       = "binary"
	DesignStepKindSingleSelect = "single_select"
	DesignStepKindDone         = "done"
)

type DesignOptionDTO struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Colors      []string `json:"colors,omitempty"`
}

type DesignStepResponse struct {
	Step      int               `json:"step"`
	Kind      string            `json:"kind"`
	Prompt    string            `json:"prompt"`
	Options   []DesignOptionDTO `json:"options,omitempty"`
	Completed bool              `json:"completed"`
}

type SubmitDesignStepRequest struct {
	ProjectId  uuid.UUID `json:"project_id" validate:"required"`
	Step       int       `json:"step" validate:"required,min=1,max=4"`
	Selections []int     `json:"selections,omitempty"`
	FreeText   string    `json:"free_text,omitempty"`
}

type DesignSummaryResponse struct {
	ComplementaryFeatures []string              `json:"complementary_features"`
	Theme                 string                `json:"theme"`
	Palette               *entity.PaletteOption `json:"palette,omitempty"`
	Style                 *entity.StyleOption   `json:"style,omitempty"`
	Guidelines            []string              `json:"guidelines"`
	TechStack             map[string][]string   `json:"tech_stack"`
	Completed             bool                  `json:"completed"`
}
