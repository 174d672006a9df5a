package dto

import "github.com/google/uuid"

// PregenerateSectionMessage is the payload published when a workflow phase
// completes and some document sections become generatable in the background.
type PregenerateSectionMessage struct {
	ProjectId uuid.UUID `json:"project_id"`
	Sections  []int     `json:"sections"`
}
