package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-productforge-be/internal/config"
	"ai-productforge-be/internal/constant"
	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/directive"
	"ai-productforge-be/pkg/llm"
	"ai-productforge-be/pkg/phase"
	"ai-productforge-be/pkg/search"
)

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, phaseNum int) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	searchService search.Service
	designService IDesignService
	workflow      config.WorkflowConfig
	logger        logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	searchService search.Service,
	designService IDesignService,
	workflow config.WorkflowConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		searchService: searchService,
		designService: designService,
		workflow:      workflow,
		logger:        log,
	}
}

func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	switch project.CurrentPhase {
	case phase.Design:
		// Phase 3 belongs to the deterministic step controller, which also
		// owns message persistence for the phase.
		reply, err := s.designService.HandleChatTurn(ctx, userId, project.Id, req.Message)
		if err != nil {
			return nil, err
		}
		return &dto.SendChatResponse{
			ProjectId: project.Id,
			Reply:     reply,
			Phase:     int(project.CurrentPhase),
			PhaseName: project.CurrentPhase.String(),
		}, nil

	case phase.DocumentGeneration:
		// Generation runs in the document pipeline, not the conversation.
		if err := s.persistMessage(ctx, uow, project, constant.ChatMessageRoleUser, req.Message, nil); err != nil {
			return nil, err
		}
		reply := constant.DocumentPhaseAcknowledgement
		if err := s.persistMessage(ctx, uow, project, constant.ChatMessageRoleAssistant, reply, nil); err != nil {
			return nil, err
		}
		return &dto.SendChatResponse{
			ProjectId: project.Id,
			Reply:     reply,
			Phase:     int(project.CurrentPhase),
			PhaseName: project.CurrentPhase.String(),
		}, nil
	}

	return s.interactiveTurn(ctx, uow, project, req.Message)
}

// interactiveTurn is the full orchestrated turn for phases 1, 2 and 5.
func (s *chatService) interactiveTurn(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, userMessage string) (*dto.SendChatResponse, error) {
	profile, err := phase.Select(project.CurrentPhase)
	if err != nil {
		return nil, err
	}

	// 1. Prior same-phase messages only: the phase partitions the history.
	history, err := uow.MessageRepository().FindAll(ctx,
		specification.ByProjectId{ProjectId: project.Id},
		specification.ByPhase{Phase: int(project.CurrentPhase)},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	// 2. Append the incoming user message.
	if err := s.persistMessage(ctx, uow, project, constant.ChatMessageRoleUser, userMessage, nil); err != nil {
		return nil, err
	}

	// 3. Search augmentation, explicit or proactive.
	searchContext, searchUsed := s.maybeSearch(ctx, uow, project, userMessage, history)

	// 4. Model completion with the phase's behavior profile.
	contextPayload := s.buildContextPayload(project, profile, searchContext)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: profile.RenderSystemPrompt(contextPayload),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: userMessage})

	reply, err := s.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.7))
	if err != nil {
		// Upstream failure is visible but non-fatal: the turn still
		// completes and persists.
		s.logger.Error("chat", "Completion call failed", map[string]interface{}{
			"project_id": project.Id,
			"error":      err.Error(),
		})
		reply = fmt.Sprintf("AI Error: %v", err)
		if perr := s.persistMessage(ctx, uow, project, constant.ChatMessageRoleAssistant, reply, nil); perr != nil {
			return nil, perr
		}
		return &dto.SendChatResponse{
			ProjectId:  project.Id,
			Reply:      reply,
			Phase:      int(project.CurrentPhase),
			PhaseName:  project.CurrentPhase.String(),
			SearchUsed: searchUsed,
		}, nil
	}

	// 5. Extract directives, mutate the graph, capture summaries.
	extracted := directive.Extract(reply)
	canvasUpdated := s.applyCanvasUpdates(project, extracted)
	s.applySummaries(project, extracted)

	// 6. Phase-2 fallback: reconstruct nodes from prose, but only when no
	// tag produced any.
	if !canvasUpdated &&
		project.CurrentPhase == phase.FeatureMapping &&
		canvas.LooksLikeFeatureAnnouncement(extracted.Cleaned) {
		for _, recovered := range canvas.RecoverFromText(extracted.Cleaned) {
			if project.Canvas.ApplyAddNode(recovered.Node, recovered.ParentId) {
				canvasUpdated = true
			}
		}
	}

	phaseComplete := extracted.PhaseComplete()

	var actions []string
	for _, d := range extracted.Directives {
		if d.Kind == directive.KindDownload {
			actions = append(actions, "download_"+d.Format)
		}
	}

	// 7. Persist the cleaned assistant reply into the phase the turn ran in.
	metadata := map[string]interface{}{}
	if canvasUpdated {
		metadata["canvas_updated"] = true
	}
	if phaseComplete {
		metadata["phase_complete"] = true
	}
	if searchUsed {
		metadata["search_used"] = true
	}
	if err := s.persistMessage(ctx, uow, project, constant.ChatMessageRoleAssistant, extracted.Cleaned, metadata); err != nil {
		return nil, err
	}

	// 8. A stray completion tag never advances phases 1-3; phases >= 4 are
	// administrative and may auto-advance.
	phaseAdvanced := false
	if phaseComplete && project.CurrentPhase.AutoAdvances() && project.CurrentPhase != phase.Export {
		project.CurrentPhase = project.CurrentPhase.Next()
		phaseAdvanced = true
	}

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ProjectId:     project.Id,
		Reply:         extracted.Cleaned,
		Phase:         int(project.CurrentPhase),
		PhaseName:     project.CurrentPhase.String(),
		PhaseComplete: phaseComplete,
		PhaseAdvanced: phaseAdvanced,
		CanvasUpdated: canvasUpdated,
		SearchUsed:    searchUsed,
		Actions:       actions,
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, phaseNum int) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	if phaseNum == 0 {
		phaseNum = int(project.CurrentPhase)
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByProjectId{ProjectId: projectId},
		specification.ByPhase{Phase: phaseNum},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := &dto.ChatHistoryResponse{
		Phase:    phaseNum,
		Messages: make([]dto.ChatMessageDTO, len(messages)),
	}
	for i, m := range messages {
		result.Messages[i] = dto.ChatMessageDTO{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Phase:     int(m.Phase),
			CreatedAt: m.CreatedAt,
		}
	}
	return result, nil
}

// maybeSearch runs the search service when the turn triggers it and returns
// the formatted result block. Proactive triggers are capped per phase;
// hitting the cap silently skips the augmentation. A search failure becomes
// a visible inline message rather than an error.
func (s *chatService) maybeSearch(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, userMessage string, history []*entity.Message) (string, bool) {
	lower := strings.ToLower(userMessage)

	explicit := containsAny(lower, s.workflow.ExplicitSearchKeywords)
	proactive := false
	if !explicit {
		switch project.CurrentPhase {
		case phase.Ideation:
			proactive = containsAny(lower, s.workflow.CompetitorKeywords) ||
				countUserTurns(history) >= s.workflow.IdeationMinExchanges
		case phase.FeatureMapping:
			proactive = containsAny(lower, s.workflow.SuggestionKeywords)
		}
	}

	if !explicit && !proactive {
		return "", false
	}
	if proactive {
		used := project.SearchUsage[int(project.CurrentPhase)]
		if used >= s.workflow.ProactiveSearchCap {
			return "", false
		}
		project.SearchUsage[int(project.CurrentPhase)] = used + 1
		if err := uow.ProjectRepository().Update(ctx, project); err != nil {
			s.logger.Warn("chat", "Failed to track search usage", map[string]interface{}{"error": err.Error()})
		}
	}

	query := fmt.Sprintf("%s %s", project.Name, userMessage)
	results, err := s.searchService.Search(ctx, query)
	if err != nil {
		s.logger.Warn("chat", "Search call failed", map[string]interface{}{
			"project_id": project.Id,
			"error":      err.Error(),
		})
		return fmt.Sprintf("Search error: %v", err), true
	}
	return search.FormatResults(results), true
}

func (s *chatService) buildContextPayload(project *entity.Project, profile phase.Profile, searchContext string) map[string]interface{} {
	payload := map[string]interface{}{
		"project_name": project.Name,
	}
	if project.Description != "" {
		payload["project_description"] = project.Description
	}

	if profile.InjectAllSummaries {
		for p, summary := range project.PhaseSummaries {
			payload[fmt.Sprintf("phase_%d_summary", p)] = summary
		}
	} else if previous := int(project.CurrentPhase) - 1; previous >= 1 {
		if summary, ok := project.PhaseSummaries[previous]; ok {
			payload[fmt.Sprintf("phase_%d_summary", previous)] = summary
		}
	}

	if searchContext != "" {
		payload["search_results"] = searchContext
	}
	return payload
}

// applyCanvasUpdates feeds extracted add-node directives into the graph and
// reports whether anything changed.
func (s *chatService) applyCanvasUpdates(project *entity.Project, extracted *directive.ExtractResult) bool {
	updated := false
	for _, update := range extracted.CanvasUpdates() {
		node := canvas.Node{
			Id:   update.Node.Id,
			Type: update.Node.Type,
			Data: update.Node.Data,
		}
		if update.Node.Position != nil {
			node.Position = canvas.Position{X: update.Node.Position.X, Y: update.Node.Position.Y}
		}
		if project.Canvas.ApplyAddNode(node, update.Node.ParentId) {
			updated = true
		}
	}
	return updated
}

// applySummaries persists ideation/features payloads as phase summaries the
// moment they appear, so they survive even if the phase never advances.
func (s *chatService) applySummaries(project *entity.Project, extracted *directive.ExtractResult) {
	for _, d := range extracted.Directives {
		switch d.Kind {
		case directive.KindIdeationComplete:
			project.PhaseSummaries[int(phase.Ideation)] = map[string]interface{}{
				"core_problem":      d.Ideation.CoreProblem,
				"pain_point":        d.Ideation.PainPoint,
				"target_audience":   d.Ideation.TargetAudience,
				"current_solutions": d.Ideation.CurrentSolutions,
			}
		case directive.KindFeaturesComplete:
			features := make([]map[string]interface{}, len(d.Features.Features))
			for i, f := range d.Features.Features {
				features[i] = map[string]interface{}{
					"title":       f.Title,
					"subFeatures": f.SubFeatures,
				}
			}
			project.PhaseSummaries[int(phase.FeatureMapping)] = map[string]interface{}{
				"features": features,
			}
		}
	}
}

func (s *chatService) persistMessage(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, role, content string, metadata map[string]interface{}) error {
	msg := &entity.Message{
		Id:        uuid.New(),
		ProjectId: project.Id,
		Role:      role,
		Content:   content,
		Phase:     project.CurrentPhase,
		Metadata:  metadata,
	}
	return uow.MessageRepository().Create(ctx, msg)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countUserTurns(history []*entity.Message) int {
	count := 0
	for _, m := range history {
		if m.Role == constant.ChatMessageRoleUser {
			count++
		}
	}
	return count
}
