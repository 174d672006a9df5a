package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type ProjectResponse struct {
	Id           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	CurrentPhase int        `json:"current_phase"`
	PhaseName    string     `json:"phase_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type AdvancePhaseRequest struct {
	ExpectedPhase int `json:"expected_phase" validate:"required,min=1,max=5"`
}

type AdvancePhaseResponse struct {
	CurrentPhase int    `json:"current_phase"`
	PhaseName    string `json:"phase_name"`
}
