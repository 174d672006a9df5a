package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUserId filters records owned by a user
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByProjectId filters child records of a project
type ByProjectId struct {
	ProjectId uuid.UUID
}

func (s ByProjectId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectId)
}

// ByPhase filters messages belonging to one workflow phase
type ByPhase struct {
	Phase int
}

func (s ByPhase) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phase = ?", s.Phase)
}

// ByDocumentType filters documents by kind ("prd")
type ByDocumentType struct {
	Type string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
