package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-productforge-be/pkg/phase"
)

type Message struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	Role      string
	Content   string
	Phase     phase.Phase
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
