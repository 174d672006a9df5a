package unitofwork

import (
	"context"

	"ai-productforge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProjectRepository() contract.ProjectRepository
	MessageRepository() contract.MessageRepository
	DocumentRepository() contract.DocumentRepository
}
