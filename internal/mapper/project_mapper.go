package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/model"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/phase"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	e := &entity.Project{
		Id:           p.Id,
		UserId:       p.UserId,
		Name:         p.Name,
		Description:  p.Description,
		CurrentPhase: phase.Phase(p.CurrentPhase),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    p.DeletedAt.Valid,
	}

	// Corrupt or absent JSON columns fall back to zero values rather than
	// failing the read.
	unmarshalColumn(p.CanvasState, &e.Canvas)
	unmarshalColumn(p.PhaseSummaries, &e.PhaseSummaries)
	unmarshalColumn(p.StepData, &e.Design)
	unmarshalColumn(p.PrdDraft, &e.PrdDraft)
	unmarshalColumn(p.SearchUsage, &e.SearchUsage)

	if len(e.Canvas.Nodes) == 0 {
		e.Canvas = *canvas.NewGraph(p.Name)
	}
	if e.PhaseSummaries == nil {
		e.PhaseSummaries = make(map[int]map[string]interface{})
	}
	if e.SearchUsage == nil {
		e.SearchUsage = make(map[int]int)
	}

	return e
}

func (m *ProjectMapper) ToModel(e *entity.Project) *model.Project {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Project{
		Id:             e.Id,
		UserId:         e.UserId,
		Name:           e.Name,
		Description:    e.Description,
		CurrentPhase:   int(e.CurrentPhase),
		CanvasState:    marshalColumn(e.Canvas),
		PhaseSummaries: marshalColumn(e.PhaseSummaries),
		StepData:       marshalColumn(e.Design),
		PrdDraft:       marshalColumn(e.PrdDraft),
		SearchUsage:    marshalColumn(e.SearchUsage),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func marshalColumn(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(raw)
}

func unmarshalColumn(raw datatypes.JSON, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
