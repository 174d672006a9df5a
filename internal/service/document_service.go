package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"ai-productforge-be/internal/constant"
	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/docgen"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/llm"
	"ai-productforge-be/pkg/phase"
	"ai-productforge-be/pkg/renderer"
)

type IDocumentService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateDocumentRequest) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.DocumentResponse, error)
	Download(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, format string) (string, error)
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	renderer       renderer.Renderer
	eventPublisher IEventPublisher
	documentDir    string
	logger         logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	pdfRenderer renderer.Renderer,
	eventPublisher IEventPublisher,
	documentDir string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		renderer:       pdfRenderer,
		eventPublisher: eventPublisher,
		documentDir:    documentDir,
		logger:         log,
	}
}

func (s *documentService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.CurrentPhase < phase.DocumentGeneration {
		return nil, fmt.Errorf("%w: document generation starts in phase %d, project is in phase %d",
			ErrStateMismatch, int(phase.DocumentGeneration), int(project.CurrentPhase))
	}

	// Assembly is idempotent: a project with an existing PRD gets that
	// document back unchanged.
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByProjectId{ProjectId: project.Id},
		specification.ByDocumentType{Type: constant.DocumentTypePRD},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toDocumentResponse(existing), nil
	}

	// Fill in whatever background pregeneration has not delivered. Section 4
	// is always generated fresh against the final tech stack.
	input := DocgenInput(project)
	sections := make(map[int]string, docgen.SectionCount)
	for section := 1; section <= docgen.SectionCount; section++ {
		if section != docgen.SectionDesignGuide {
			if text, ok := project.PrdDraft.Section(section); ok && text != "" {
				sections[section] = text
				continue
			}
		}
		sections[section] = s.generateSection(ctx, section, input)
	}

	for section := 1; section <= docgen.SectionCount; section++ {
		project.PrdDraft.SetSection(section, sections[section])
		project.PrdDraft.MarkPhase(docgen.PhaseFor(section))
	}

	title := fmt.Sprintf("%s - PRD", project.Name)
	content := docgen.Assemble(project.Name, sections)

	mdPath, pdfPath, err := s.writeArtifacts(ctx, project.Id, content)
	if err != nil {
		return nil, err
	}

	document := &entity.Document{
		Id:        uuid.New(),
		ProjectId: project.Id,
		Type:      constant.DocumentTypePRD,
		Title:     title,
		MdPath:    mdPath,
		PdfPath:   pdfPath,
	}
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	// Document generation completes phase 4; the export phase opens
	// automatically.
	if project.CurrentPhase == phase.DocumentGeneration {
		project.CurrentPhase = phase.Export
	}
	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, events.New(events.TypeDocumentGenerated, map[string]interface{}{
		"project_id":  project.Id.String(),
		"document_id": document.Id.String(),
		"type":        document.Type,
	}))

	s.logger.Info("document", "PRD assembled", map[string]interface{}{
		"project_id":  project.Id,
		"document_id": document.Id,
		"pdf":         pdfPath != "",
	})
	return toDocumentResponse(document), nil
}

func (s *documentService) GetAll(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectId{ProjectId: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, len(documents))
	for i, d := range documents {
		result[i] = toDocumentResponse(d)
	}
	return result, nil
}

func (s *documentService) Download(ctx context.Context, userId uuid.UUID, documentId uuid.UUID, format string) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return "", err
	}
	if document == nil {
		return "", ErrNotFound
	}

	// Ownership runs through the parent project.
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: document.ProjectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", ErrNotFound
	}

	switch format {
	case "md":
		return document.MdPath, nil
	case "pdf":
		if document.PdfPath == "" {
			return "", fmt.Errorf("%w: no PDF rendition for this document", ErrNotFound)
		}
		return document.PdfPath, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
}

// generateSection runs one synchronous section generation. A completion
// failure degrades to a visible inline note instead of failing assembly.
func (s *documentService) generateSection(ctx context.Context, section int, input docgen.Input) string {
	prompt, err := docgen.BuildSectionPrompt(section, input)
	if err != nil {
		return fmt.Sprintf("Generation error: %v", err)
	}
	text, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		s.logger.Warn("document", "Section generation failed", map[string]interface{}{
			"section": section,
			"error":   err.Error(),
		})
		return fmt.Sprintf("Generation error: %v", err)
	}
	return text
}

// writeArtifacts saves the markdown file and, when the renderer is up, the
// PDF rendition. Renderer unavailability is not an error: the markdown
// artifact alone is a valid outcome.
func (s *documentService) writeArtifacts(ctx context.Context, projectId uuid.UUID, content string) (mdPath string, pdfPath string, err error) {
	if err := os.MkdirAll(s.documentDir, 0o755); err != nil {
		return "", "", err
	}

	mdPath = filepath.Join(s.documentDir, fmt.Sprintf("%s-prd.md", projectId))
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return "", "", err
	}

	pdfBytes, err := s.renderer.Render(ctx, content)
	if err != nil {
		if !errors.Is(err, renderer.ErrUnavailable) {
			s.logger.Warn("document", "PDF rendering failed", map[string]interface{}{"error": err.Error()})
		}
		return mdPath, "", nil
	}

	pdfPath = filepath.Join(s.documentDir, fmt.Sprintf("%s-prd.pdf", projectId))
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		s.logger.Warn("document", "Failed to save PDF", map[string]interface{}{"error": err.Error()})
		return mdPath, "", nil
	}
	return mdPath, pdfPath, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:           d.Id,
		ProjectId:    d.ProjectId,
		Type:         d.Type,
		Title:        d.Title,
		MdPath:       d.MdPath,
		PdfPath:      d.PdfPath,
		PdfAvailable: d.PdfPath != "",
		CreatedAt:    d.CreatedAt,
	}
}
