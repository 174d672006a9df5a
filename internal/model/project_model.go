package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Name           string         `gorm:"type:text;not null"`
	Description    string         `gorm:"type:text"`
	CurrentPhase   int            `gorm:"type:int;not null;default:1"`
	CanvasState    datatypes.JSON `gorm:"type:jsonb"`
	PhaseSummaries datatypes.JSON `gorm:"type:jsonb"`
	StepData       datatypes.JSON `gorm:"type:jsonb"`
	PrdDraft       datatypes.JSON `gorm:"type:jsonb"`
	SearchUsage    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}
