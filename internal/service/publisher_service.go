package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-productforge-be/internal/dto"
)

type IPublisherService interface {
	PublishSectionPregeneration(ctx context.Context, projectId uuid.UUID, sections []int) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *publisherService) PublishSectionPregeneration(ctx context.Context, projectId uuid.UUID, sections []int) error {
	payload := dto.PregenerateSectionMessage{
		ProjectId: projectId,
		Sections:  sections,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	return ps.pubSub.Publish(ps.topicName, msg)
}
