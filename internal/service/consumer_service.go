package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/pkg/logger"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/docgen"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/llm"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	eventPublisher IEventPublisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PregenerateSectionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal pregeneration message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: payload.ProjectId})
	if err != nil {
		cs.logger.Error("consumer", "Failed to load project for pregeneration", map[string]interface{}{
			"project_id": payload.ProjectId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if project == nil {
		// Project deleted between publish and consume, nothing to do.
		msg.Ack()
		return
	}

	input := DocgenInput(project)
	generated := make(map[int]string)
	for _, section := range payload.Sections {
		prompt, err := docgen.BuildSectionPrompt(section, input)
		if err != nil {
			cs.logger.Warn("consumer", "Skipping unknown section", map[string]interface{}{"section": section})
			continue
		}

		text, err := cs.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
		if err != nil {
			// Assembly will regenerate missing sections synchronously.
			cs.logger.Warn("consumer", "Section pregeneration failed", map[string]interface{}{
				"project_id": payload.ProjectId,
				"section":    section,
				"error":      err.Error(),
			})
			continue
		}
		generated[section] = text
	}

	if len(generated) == 0 {
		msg.Ack()
		return
	}

	// Re-read before writing: the draft may have gained sections while we
	// were generating. Sections are independent keys; last write wins.
	fresh, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: payload.ProjectId})
	if err != nil || fresh == nil {
		msg.Ack()
		return
	}
	for section, text := range generated {
		fresh.PrdDraft.SetSection(section, text)
		fresh.PrdDraft.MarkPhase(docgen.PhaseFor(section))
	}
	if err := uow.ProjectRepository().Update(ctx, fresh); err != nil {
		cs.logger.Error("consumer", "Failed to persist pregenerated sections", map[string]interface{}{
			"project_id": payload.ProjectId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	sections := make([]int, 0, len(generated))
	for s := range generated {
		sections = append(sections, s)
	}
	cs.eventPublisher.Publish(ctx, events.New(events.TypeSectionPregenerated, map[string]interface{}{
		"project_id": payload.ProjectId.String(),
		"sections":   sections,
	}))

	cs.logger.Info("consumer", "Pregenerated document sections", map[string]interface{}{
		"project_id": payload.ProjectId,
		"sections":   sections,
	})
	msg.Ack()
}

// DocgenInput projects the persisted workflow state into the shape the
// section prompt builders read.
func DocgenInput(project *entity.Project) docgen.Input {
	stack := make(map[string]interface{}, len(project.Design.TechStack))
	for k, v := range project.Design.TechStack {
		stack[k] = v
	}
	return docgen.Input{
		ProjectName: project.Name,
		Summaries:   project.PhaseSummaries,
		TechStack:   stack,
	}
}
