package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"support-chat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	historyService IHistoryService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	historyService IHistoryService,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		historyService: historyService,
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
	var payload dto.PublishTurnSnapshotMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn snapshot: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	err := cs.historyService.RecordTurnSnapshot(ctx, &payload)
	if err != nil {
		if errors.Is(err, ErrHistoryDisabled) {
			// No store configured. Ack so the bus does not redeliver.
			msg.Ack()
			return
		}
		log.Printf("[ERROR] Failed to record turn snapshot: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Turn snapshot recorded (reply length: %d)", len(payload.Reply))
	msg.Ack()
}
