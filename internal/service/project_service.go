package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/docgen"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/phase"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	AdvancePhase(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AdvancePhaseRequest) (*dto.AdvancePhaseResponse, error)
	GetCanvas(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CanvasResponse, error)
	ReplaceCanvas(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.ReplaceCanvasRequest) (*dto.CanvasResponse, error)
}

type projectService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   IEventPublisher
	logger           logger.ILogger
}

func NewProjectService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IProjectService {
	return &projectService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project := &entity.Project{
		Id:             uuid.New(),
		UserId:         userId,
		Name:           req.Name,
		Description:    req.Description,
		CurrentPhase:   phase.Ideation,
		Canvas:         *canvas.NewGraph(req.Name),
		PhaseSummaries: make(map[int]map[string]interface{}),
		SearchUsage:    make(map[int]int),
	}

	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, events.New(events.TypeProjectCreated, map[string]interface{}{
		"project_id": project.Id.String(),
		"name":       project.Name,
	}))

	s.logger.Info("project", "Project created", map[string]interface{}{"project_id": project.Id})
	return toProjectResponse(project), nil
}

func (s *projectService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ProjectResponse, len(projects))
	for i, p := range projects {
		result[i] = toProjectResponse(p)
	}
	return result, nil
}

func (s *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ByUserId{UserId: userId})
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}

	// Cascade: messages and documents go with the project.
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.MessageRepository().DeleteAllByProjectId(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.DocumentRepository().DeleteAllByProjectId(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.ProjectRepository().Delete(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("project", "Project deleted", map[string]interface{}{"project_id": id})
	return nil
}

func (s *projectService) AdvancePhase(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AdvancePhaseRequest) (*dto.AdvancePhaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	expected := phase.Phase(req.ExpectedPhase)
	if project.CurrentPhase != expected {
		return nil, fmt.Errorf("%w: project is in phase %d, request expected %d",
			ErrStateMismatch, int(project.CurrentPhase), req.ExpectedPhase)
	}
	if project.CurrentPhase == phase.Export {
		return nil, fmt.Errorf("%w: phase %d is the final phase", ErrStateMismatch, int(project.CurrentPhase))
	}

	completed := project.CurrentPhase
	project.CurrentPhase = completed.Next()
	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, events.New(events.TypePhaseAdvanced, map[string]interface{}{
		"project_id": project.Id.String(),
		"from":       int(completed),
		"to":         int(project.CurrentPhase),
	}))

	// Completing a phase can unlock background document sections
	// (phase 1 -> Overview; phase 3 is triggered by the design flow).
	if completed == phase.Ideation {
		if sections := docgen.SectionsReadyAfter(int(completed)); len(sections) > 0 {
			if err := s.publisherService.PublishSectionPregeneration(ctx, project.Id, sections); err != nil {
				s.logger.Warn("project", "Failed to schedule section pregeneration", map[string]interface{}{
					"project_id": project.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	return &dto.AdvancePhaseResponse{
		CurrentPhase: int(project.CurrentPhase),
		PhaseName:    project.CurrentPhase.String(),
	}, nil
}

func (s *projectService) GetCanvas(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CanvasResponse, error) {
	project, err := s.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return &dto.CanvasResponse{
		Nodes: project.Canvas.Nodes,
		Edges: project.Canvas.Edges,
	}, nil
}

func (s *projectService) ReplaceCanvas(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.ReplaceCanvasRequest) (*dto.CanvasResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	project.Canvas.Replace(req.Nodes, req.Edges)
	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	return &dto.CanvasResponse{
		Nodes: project.Canvas.Nodes,
		Edges: project.Canvas.Edges,
	}, nil
}

func (s *projectService) findOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:           p.Id,
		Name:         p.Name,
		Description:  p.Description,
		CurrentPhase: int(p.CurrentPhase),
		PhaseName:    p.CurrentPhase.String(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
