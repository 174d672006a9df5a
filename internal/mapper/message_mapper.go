package mapper

import (
	"time"

	"gorm.io/gorm"

	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/model"
	"ai-productforge-be/pkg/phase"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	e := &entity.Message{
		Id:        msg.Id,
		ProjectId: msg.ProjectId,
		Role:      msg.Role,
		Content:   msg.Content,
		Phase:     phase.Phase(msg.Phase),
		CreatedAt: msg.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: msg.DeletedAt.Valid,
	}
	unmarshalColumn(msg.Metadata, &e.Metadata)

	return e
}

func (m *MessageMapper) ToModel(e *entity.Message) *model.Message {
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

	return &model.Message{
		Id:        e.Id,
		ProjectId: e.ProjectId,
		Role:      e.Role,
		Content:   e.Content,
		Phase:     int(e.Phase),
		Metadata:  marshalColumn(e.Metadata),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
