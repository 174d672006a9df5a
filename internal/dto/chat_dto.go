package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	ProjectId uuid.UUID `json:"project_id" validate:"required"`
	Message   string    `json:"message" validate:"required"`
}

type ChatMessageDTO struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Phase     int       `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	ProjectId     uuid.UUID `json:"project_id"`
	Reply         string    `json:"reply"`
	Phase         int       `json:"phase"`
	PhaseName     string    `json:"phase_name"`
	PhaseComplete bool      `json:"phase_complete"`
	PhaseAdvanced bool      `json:"phase_advanced"`
	CanvasUpdated bool      `json:"canvas_updated"`
	SearchUsed    bool      `json:"search_used"`
	Actions       []string  `json:"actions,omitempty"`
}

type ChatHistoryResponse struct {
	Phase    int              `json:"phase"`
	Messages []ChatMessageDTO `json:"messages"`
}
