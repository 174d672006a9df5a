package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"ai-productforge-be/internal/constant"
	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/docgen"
	"ai-productforge-be/pkg/llm"
	"ai-productforge-be/pkg/phase"
	"ai-productforge-be/pkg/search"
)

// The design phase is a fixed 5-step sequence driven by an explicit step
// counter, not by the free-form model loop. Step 5 runs without user input.
const (
	designStepComplementary = 1
	designStepTheme         = 2
	designStepPalette       = 3
	designStepStyle         = 4
	designStepDone          = 5
)

type IDesignService interface {
	CurrentStep(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.DesignStepResponse, error)
	SubmitStep(ctx context.Context, userId uuid.UUID, req *dto.SubmitDesignStepRequest) (*dto.DesignStepResponse, error)
	Summary(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.DesignSummaryResponse, error)
	HandleChatTurn(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, message string) (string, error)
}

type designService struct {
	uowFactory       unitofwork.RepositoryFactory
	llmProvider      llm.LLMProvider
	searchService    search.Service
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDesignService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	searchService search.Service,
	publisherService IPublisherService,
	log logger.ILogger,
) IDesignService {
	return &designService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		searchService:    searchService,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *designService) CurrentStep(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.DesignStepResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := s.loadDesignProject(ctx, uow, userId, projectId)
	if err != nil {
		return nil, err
	}

	if project.Design.Step == 0 {
		if err := s.start(ctx, uow, project); err != nil {
			return nil, err
		}
	}

	return stepResponse(&project.Design), nil
}

func (s *designService) SubmitStep(ctx context.Context, userId uuid.UUID, req *dto.SubmitDesignStepRequest) (*dto.DesignStepResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := s.loadDesignProject(ctx, uow, userId, req.ProjectId)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, uow, project, req)
}

func (s *designService) Summary(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.DesignSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	state := project.Design
	return &dto.DesignSummaryResponse{
		ComplementaryFeatures: state.SelectedComplementary,
		Theme:                 state.Theme,
		Palette:               state.Palette,
		Style:                 state.Style,
		Guidelines:            state.Guidelines,
		TechStack:             state.TechStack,
		Completed:             state.Completed,
	}, nil
}

// HandleChatTurn lets the conversational surface drive the step controller:
// the free-text message is mapped onto the current step's expected input.
func (s *designService) HandleChatTurn(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, message string) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := s.loadDesignProject(ctx, uow, userId, projectId)
	if err != nil {
		return "", err
	}

	if project.Design.Step == 0 {
		if err := s.start(ctx, uow, project); err != nil {
			return "", err
		}
		reply := constant.DesignPhaseRedirect + "\n\n" + stepPromptText(&project.Design)
		if err := s.persistExchange(ctx, uow, project, message, reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	if project.Design.Completed {
		reply := constant.DesignStepDonePrompt
		if err := s.persistExchange(ctx, uow, project, message, reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	req := &dto.SubmitDesignStepRequest{
		ProjectId:  projectId,
		Step:       project.Design.Step,
		Selections: parseSelections(message),
	}
	if len(req.Selections) == 0 {
		req.FreeText = strings.TrimSpace(message)
	}

	res, err := s.apply(ctx, uow, project, req)
	if err != nil {
		return "", err
	}
	return res.Prompt, nil
}

// start initializes the flow at step 1 by generating the complementary
// feature candidates.
func (s *designService) start(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project) error {
	options := s.generateComplementary(ctx, project)
	project.Design.Step = designStepComplementary
	project.Design.ComplementaryOptions = options
	return uow.ProjectRepository().Update(ctx, project)
}

func (s *designService) apply(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, req *dto.SubmitDesignStepRequest) (*dto.DesignStepResponse, error) {
	state := &project.Design
	if state.Step == 0 {
		return nil, fmt.Errorf("%w: design flow not started", ErrStateMismatch)
	}
	if state.Completed {
		return nil, fmt.Errorf("%w: design flow already completed", ErrStateMismatch)
	}
	if req.Step != state.Step {
		return nil, fmt.Errorf("%w: design flow is at step %d, request targeted %d",
			ErrStateMismatch, state.Step, req.Step)
	}

	userText := describeSubmission(req)

	switch state.Step {
	case designStepComplementary:
		if err := s.applyComplementary(state, req); err != nil {
			return nil, err
		}
		state.Step = designStepTheme

	case designStepTheme:
		if err := applyTheme(state, req); err != nil {
			return nil, err
		}
		state.PaletteOptions = s.generatePalettes(ctx, project, state.Theme)
		state.Step = designStepPalette

	case designStepPalette:
		if err := applyPalette(state, req); err != nil {
			return nil, err
		}
		state.StyleOptions = s.generateStyles(ctx, project)
		state.Step = designStepStyle

	case designStepStyle:
		if err := applyStyle(state, req); err != nil {
			return nil, err
		}
		s.finalize(ctx, project)

	default:
		return nil, fmt.Errorf("%w: no handler for design step %d", ErrStateMismatch, state.Step)
	}

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	res := stepResponse(state)
	if err := s.persistExchange(ctx, uow, project, userText, res.Prompt); err != nil {
		return nil, err
	}

	if state.Completed {
		// Step-4 completion closes the phase-3 data set, so the dependent
		// document sections can pregenerate in the background.
		if sections := docgen.SectionsReadyAfter(int(phase.Design)); len(sections) > 0 {
			if err := s.publisherService.PublishSectionPregeneration(ctx, project.Id, sections); err != nil {
				s.logger.Warn("design", "Failed to schedule section pregeneration", map[string]interface{}{
					"project_id": project.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	return res, nil
}

func (s *designService) applyComplementary(state *entity.DesignState, req *dto.SubmitDesignStepRequest) error {
	selected := make([]string, 0, len(req.Selections)+1)
	for _, idx := range req.Selections {
		if idx < 1 || idx > len(state.ComplementaryOptions) {
			return fmt.Errorf("%w: selection %d out of range", ErrInvalidInput, idx)
		}
		selected = append(selected, state.ComplementaryOptions[idx-1])
	}
	if custom := strings.TrimSpace(req.FreeText); custom != "" {
		selected = append(selected, custom)
	}
	if len(selected) == 0 || len(selected) > 5 {
		return fmt.Errorf("%w: pick between 1 and 5 complementary features", ErrInvalidInput)
	}
	state.SelectedComplementary = selected
	return nil
}

func applyTheme(state *entity.DesignState, req *dto.SubmitDesignStepRequest) error {
	switch {
	case len(req.Selections) == 1 && req.Selections[0] == 1:
		state.Theme = "light"
	case len(req.Selections) == 1 && req.Selections[0] == 2:
		state.Theme = "dark"
	case strings.Contains(strings.ToLower(req.FreeText), "light"):
		state.Theme = "light"
	case strings.Contains(strings.ToLower(req.FreeText), "dark"):
		state.Theme = "dark"
	default:
		return fmt.Errorf("%w: theme must be light or dark", ErrInvalidInput)
	}
	return nil
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func applyPalette(state *entity.DesignState, req *dto.SubmitDesignStepRequest) error {
	if custom := strings.TrimSpace(req.FreeText); custom != "" {
		colors := make([]string, 0, 4)
		for _, token := range strings.Split(custom, ",") {
			color := strings.TrimSpace(token)
			if !hexColorPattern.MatchString(color) {
				return fmt.Errorf("%w: %q is not a hex color", ErrInvalidInput, color)
			}
			colors = append(colors, strings.ToUpper(color))
		}
		if len(colors) == 0 {
			return fmt.Errorf("%w: empty palette", ErrInvalidInput)
		}
		state.Palette = &entity.PaletteOption{Name: "Custom", Colors: colors}
		return nil
	}

	if len(req.Selections) != 1 {
		return fmt.Errorf("%w: pick exactly one palette", ErrInvalidInput)
	}
	idx := req.Selections[0]
	if idx < 1 || idx > len(state.PaletteOptions) {
		return fmt.Errorf("%w: selection %d out of range", ErrInvalidInput, idx)
	}
	palette := state.PaletteOptions[idx-1]
	state.Palette = &palette
	return nil
}

func applyStyle(state *entity.DesignState, req *dto.SubmitDesignStepRequest) error {
	if len(req.Selections) != 1 {
		return fmt.Errorf("%w: pick exactly one style", ErrInvalidInput)
	}
	idx := req.Selections[0]
	if idx < 1 || idx > len(state.StyleOptions) {
		return fmt.Errorf("%w: selection %d out of range", ErrInvalidInput, idx)
	}
	style := state.StyleOptions[idx-1]
	state.Style = &style
	return nil
}

// finalize is step 5: no user input. It synthesizes guidelines and a tech
// stack, materializes the design on the canvas, and persists the phase-3
// summary. The phase itself still advances only on an explicit request.
func (s *designService) finalize(ctx context.Context, project *entity.Project) {
	state := &project.Design

	state.Guidelines = s.generateGuidelines(ctx, state)
	state.TechStack = s.generateTechStack(ctx, project)

	project.Canvas.ApplyAddNode(canvas.Node{
		Id:   "design-system-map",
		Type: canvas.NodeTypeSystemMap,
		Data: map[string]interface{}{
			"label":      "Design System",
			"theme":      state.Theme,
			"palette":    state.Palette,
			"guidelines": state.Guidelines,
		},
	}, canvas.RootNodeId)

	project.Canvas.ApplyAddNode(canvas.Node{
		Id:   "ui-design",
		Type: canvas.NodeTypeUIDesign,
		Data: map[string]interface{}{
			"label": "UI Design",
			"style": state.Style,
		},
	}, canvas.RootNodeId)

	project.PhaseSummaries[int(phase.Design)] = map[string]interface{}{
		"complementary_features": state.SelectedComplementary,
		"theme":                  state.Theme,
		"palette":                state.Palette,
		"style":                  state.Style,
		"guidelines":             state.Guidelines,
		"tech_stack":             state.TechStack,
	}

	state.Step = designStepDone
	state.Completed = true
}

// Generators. Every model call here is JSON-constrained and backed by a
// static default so a bad completion never blocks the flow.

func (s *designService) generateComplementary(ctx context.Context, project *entity.Project) []string {
	prompt := fmt.Sprintf(constant.DesignComplementaryGenPrompt, projectContext(project))
	var payload struct {
		Features []string `json:"features"`
	}
	if err := s.generateJSON(ctx, prompt, &payload); err != nil {
		s.logger.Warn("design", "Complementary generation failed, using defaults", map[string]interface{}{"error": err.Error()})
		return constant.FallbackComplementaryFeatures
	}
	features := payload.Features
	for i := 0; len(features) < 5 && i < len(constant.FallbackComplementaryFeatures); i++ {
		features = append(features, constant.FallbackComplementaryFeatures[i])
	}
	if len(features) > 5 {
		features = features[:5]
	}
	return features
}

func (s *designService) generatePalettes(ctx context.Context, project *entity.Project, theme string) []entity.PaletteOption {
	query := fmt.Sprintf("%s %s color palette", project.Name, theme)
	results, err := s.searchService.Search(ctx, query)
	inspiration := "No results found."
	if err != nil {
		s.logger.Warn("design", "Palette search failed", map[string]interface{}{"error": err.Error()})
	} else {
		inspiration = search.FormatResults(results)
	}

	prompt := fmt.Sprintf(constant.DesignPaletteGenPrompt, theme, inspiration)
	var payload struct {
		Palettes []entity.PaletteOption `json:"palettes"`
	}
	if err := s.generateJSON(ctx, prompt, &payload); err != nil {
		s.logger.Warn("design", "Palette generation failed, using defaults", map[string]interface{}{"error": err.Error()})
		return constant.FallbackPalettes
	}

	palettes := make([]entity.PaletteOption, 0, 3)
	for _, p := range payload.Palettes {
		if p.Name != "" && len(p.Colors) == 4 {
			palettes = append(palettes, p)
		}
	}
	// Pad a short result to exactly 3 options from the static set.
	for i := 0; len(palettes) < 3 && i < len(constant.FallbackPalettes); i++ {
		palettes = append(palettes, constant.FallbackPalettes[i])
	}
	if len(palettes) > 3 {
		palettes = palettes[:3]
	}
	return palettes
}

func (s *designService) generateStyles(ctx context.Context, project *entity.Project) []entity.StyleOption {
	prompt := fmt.Sprintf(constant.DesignStyleGenPrompt, projectContext(project))
	var payload struct {
		Styles []entity.StyleOption `json:"styles"`
	}
	if err := s.generateJSON(ctx, prompt, &payload); err != nil {
		s.logger.Warn("design", "Style generation failed, using defaults", map[string]interface{}{"error": err.Error()})
		return constant.FallbackDesignStyles
	}

	styles := make([]entity.StyleOption, 0, 3)
	for _, st := range payload.Styles {
		if st.Name != "" {
			styles = append(styles, st)
		}
	}
	for i := 0; len(styles) < 3 && i < len(constant.FallbackDesignStyles); i++ {
		styles = append(styles, constant.FallbackDesignStyles[i])
	}
	if len(styles) > 3 {
		styles = styles[:3]
	}
	return styles
}

func (s *designService) generateGuidelines(ctx context.Context, state *entity.DesignState) []string {
	paletteName := ""
	if state.Palette != nil {
		paletteName = state.Palette.Name
	}
	styleName := ""
	if state.Style != nil {
		styleName = state.Style.Name
	}
	prompt := fmt.Sprintf(constant.DesignGuidelinesGenPrompt, state.Theme, paletteName, styleName)
	var payload struct {
		Guidelines []string `json:"guidelines"`
	}
	if err := s.generateJSON(ctx, prompt, &payload); err != nil || len(payload.Guidelines) == 0 {
		return constant.FallbackDesignGuidelines
	}
	return payload.Guidelines
}

func (s *designService) generateTechStack(ctx context.Context, project *entity.Project) map[string][]string {
	prompt := fmt.Sprintf(constant.DesignTechStackGenPrompt, projectContext(project))
	var payload struct {
		Stack map[string][]string `json:"stack"`
	}
	if err := s.generateJSON(ctx, prompt, &payload); err != nil || len(payload.Stack) == 0 {
		return constant.FallbackTechStack
	}
	return payload.Stack
}

func (s *designService) generateJSON(ctx context.Context, prompt string, v interface{}) error {
	text, err := s.llmProvider.Generate(ctx, prompt, llm.WithJSONMode(), llm.WithTemperature(0.4))
	if err != nil {
		return err
	}
	return decodeJSONBlock(text, v)
}

// decodeJSONBlock tolerates markdown fences and prose around the JSON body.
func decodeJSONBlock(text string, v interface{}) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object in completion")
	}
	return json.Unmarshal([]byte(text[start:end+1]), v)
}

func (s *designService) loadDesignProject(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, projectId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId}, specification.ByUserId{UserId: userId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.CurrentPhase != phase.Design {
		return nil, fmt.Errorf("%w: design flow runs in phase %d, project is in phase %d",
			ErrStateMismatch, int(phase.Design), int(project.CurrentPhase))
	}
	return project, nil
}

// persistExchange writes the phase-3 conversation turn. Message persistence
// in this phase is owned here, not by the chat orchestrator, so a delegated
// turn is never written twice.
func (s *designService) persistExchange(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, userText, assistantText string) error {
	if userText != "" {
		userMsg := &entity.Message{
			Id:        uuid.New(),
			ProjectId: project.Id,
			Role:      constant.ChatMessageRoleUser,
			Content:   userText,
			Phase:     phase.Design,
		}
		if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
			return err
		}
	}
	assistantMsg := &entity.Message{
		Id:        uuid.New(),
		ProjectId: project.Id,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   assistantText,
		Phase:     phase.Design,
		Metadata:  stepOfferMetadata(&project.Design),
	}
	return uow.MessageRepository().Create(ctx, assistantMsg)
}

// stepOfferMetadata captures the option set shown to the user, so a history
// read can reconstruct what each wizard turn offered.
func stepOfferMetadata(state *entity.DesignState) map[string]interface{} {
	meta := map[string]interface{}{"step": state.Step}
	switch state.Step {
	case designStepComplementary:
		meta["options"] = state.ComplementaryOptions
	case designStepTheme:
		meta["options"] = []string{"Light", "Dark"}
	case designStepPalette:
		options := make([]string, len(state.PaletteOptions))
		for i, p := range state.PaletteOptions {
			options[i] = p.Name
		}
		meta["options"] = options
	case designStepStyle:
		options := make([]string, len(state.StyleOptions))
		for i, st := range state.StyleOptions {
			options[i] = st.Name
		}
		meta["options"] = options
	}
	return meta
}

func stepResponse(state *entity.DesignState) *dto.DesignStepResponse {
	res := &dto.DesignStepResponse{
		Step:      state.Step,
		Completed: state.Completed,
		Prompt:    stepPromptText(state),
	}

	switch state.Step {
	case designStepComplementary:
		res.Kind = dto.DesignStepKindMultiSelect
		for _, f := range state.ComplementaryOptions {
			res.Options = append(res.Options, dto.DesignOptionDTO{Label: f})
		}
	case designStepTheme:
		res.Kind = dto.DesignStepKindBinary
		res.Options = []dto.DesignOptionDTO{{Label: "Light"}, {Label: "Dark"}}
	case designStepPalette:
		res.Kind = dto.DesignStepKindSingleSelect
		for _, p := range state.PaletteOptions {
			res.Options = append(res.Options, dto.DesignOptionDTO{Label: p.Name, Colors: p.Colors})
		}
	case designStepStyle:
		res.Kind = dto.DesignStepKindSingleSelect
		for _, st := range state.StyleOptions {
			res.Options = append(res.Options, dto.DesignOptionDTO{Label: st.Name, Description: st.Description})
		}
	default:
		res.Kind = dto.DesignStepKindDone
	}
	return res
}

func stepPromptText(state *entity.DesignState) string {
	switch state.Step {
	case designStepComplementary:
		var b strings.Builder
		b.WriteString(constant.DesignStepComplementaryPrompt)
		for i, f := range state.ComplementaryOptions {
			b.WriteString(fmt.Sprintf("\n%d. %s", i+1, f))
		}
		return b.String()
	case designStepTheme:
		return constant.DesignStepThemePrompt
	case designStepPalette:
		var b strings.Builder
		b.WriteString(constant.DesignStepPalettePrompt)
		for i, p := range state.PaletteOptions {
			b.WriteString(fmt.Sprintf("\n%d. %s (%s)", i+1, p.Name, strings.Join(p.Colors, ", ")))
		}
		return b.String()
	case designStepStyle:
		var b strings.Builder
		b.WriteString(constant.DesignStepStylePrompt)
		for i, st := range state.StyleOptions {
			b.WriteString(fmt.Sprintf("\n%d. %s - %s", i+1, st.Name, st.Description))
		}
		return b.String()
	}
	return constant.DesignStepDonePrompt
}

func describeSubmission(req *dto.SubmitDesignStepRequest) string {
	if req.FreeText != "" {
		return req.FreeText
	}
	parts := make([]string, len(req.Selections))
	for i, sel := range req.Selections {
		parts[i] = strconv.Itoa(sel)
	}
	return strings.Join(parts, ", ")
}

var selectionPattern = regexp.MustCompile(`\d+`)

func parseSelections(message string) []int {
	matches := selectionPattern.FindAllString(message, -1)
	selections := make([]int, 0, len(matches))
	for _, m := range matches {
		if n, err := strconv.Atoi(m); err == nil {
			selections = append(selections, n)
		}
	}
	return selections
}

func projectContext(project *entity.Project) string {
	payload := map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
	}
	for p, summary := range project.PhaseSummaries {
		payload[fmt.Sprintf("phase_%d_summary", p)] = summary
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return project.Name
	}
	return string(raw)
}
