package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/repository/specification"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteAllByProjectId(ctx context.Context, projectId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
