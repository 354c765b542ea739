package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/pkg/commerce"
	"support-chat-be/pkg/llm"
	"support-chat-be/pkg/support/intent"
	"support-chat-be/pkg/support/prompt"
)

var ErrEmptyConversation = errors.New("conversation has no messages")

// CommerceGateway is the slice of the commerce client the turn builder
// needs. Both fetches fail soft and return nil.
type CommerceGateway interface {
	FetchProducts(ctx context.Context) []commerce.ProductSummary
	FetchOrders(ctx context.Context, customerID string) []commerce.OrderSummary
}

// TurnContext carries everything assembled for one support turn.
type TurnContext struct {
	Outbound []llm.Message
	Decision intent.Decision
	Products []commerce.ProductSummary
	Orders   []commerce.OrderSummary
}

type ISupportService interface {
	BuildTurn(ctx context.Context, history []llm.Message) (*TurnContext, error)
	StreamReply(ctx context.Context, turn *TurnContext, onDelta func(delta string) error) error
}

type supportService struct {
	gateway          CommerceGateway
	llmProvider      llm.LLMProvider
	publisherService IPublisherService
	log              logger.ILogger
	customerID       string
	personalize      bool
	displayName      string
}

func NewSupportService(
	gateway CommerceGateway,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	log logger.ILogger,
	customerID string,
	personalize bool,
	displayName string,
) ISupportService {
	return &supportService{
		gateway:          gateway,
		llmProvider:      llmProvider,
		publisherService: publisherService,
		log:              log,
		customerID:       customerID,
		personalize:      personalize,
		displayName:      displayName,
	}
}

// BuildTurn classifies the latest message, fetches whichever commerce
// payloads the turn needs and assembles the outbound message list. Gateway
// failures degrade to null payloads and never fail the turn.
func (s *supportService) BuildTurn(ctx context.Context, history []llm.Message) (*TurnContext, error) {
	if len(history) == 0 {
		return nil, ErrEmptyConversation
	}

	currentMessage := history[len(history)-1].Content
	decision := intent.Classify(currentMessage)

	var products []commerce.ProductSummary
	var orders []commerce.OrderSummary

	if decision.WantsProducts {
		products = s.gateway.FetchProducts(ctx)
	}
	if decision.WantsOrders {
		orders = s.gateway.FetchOrders(ctx, s.customerID)
	}

	s.log.Info("SupportService", "Turn assembled", map[string]interface{}{
		"product_match":  decision.ProductMatch,
		"wants_products": decision.WantsProducts,
		"wants_orders":   decision.WantsOrders,
		"products":       len(products),
		"orders":         len(orders),
	})

	builder := prompt.NewBuilder(products, orders, decision.ProductMatch, s.customerID)
	if s.personalize {
		builder = builder.WithPersonalization(s.displayName)
	}

	return &TurnContext{
		Outbound: prompt.Assemble(builder.Build(), history),
		Decision: decision,
		Products: products,
		Orders:   orders,
	}, nil
}

// StreamReply relays completion chunks to onDelta, then publishes the
// completed turn for the snapshot consumer. Publishing is best effort and
// never fails the turn.
func (s *supportService) StreamReply(ctx context.Context, turn *TurnContext, onDelta func(delta string) error) error {
	chunks, err := s.llmProvider.ChatStream(ctx, turn.Outbound)
	if err != nil {
		return err
	}

	var reply strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return chunk.Err
		}
		if err := onDelta(chunk.Content); err != nil {
			return err
		}
		reply.WriteString(chunk.Content)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.publishTurnSnapshot(ctx, turn, reply.String())
	return nil
}

func (s *supportService) publishTurnSnapshot(ctx context.Context, turn *TurnContext, reply string) {
	// A nil slice serializes to the JSON literal null, matching the prompt's
	// missing-data convention.
	productsJSON, _ := json.Marshal(turn.Products)
	ordersJSON, _ := json.Marshal(turn.Orders)

	payload := dto.PublishTurnSnapshotMessage{
		Products:      productsJSON,
		Orders:        ordersJSON,
		ProductMatch:  turn.Decision.ProductMatch,
		WantsProducts: turn.Decision.WantsProducts,
		WantsOrders:   turn.Decision.WantsOrders,
		Reply:         reply,
		CompletedAt:   time.Now().UTC(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("SupportService", "Failed to marshal turn snapshot", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := s.publisherService.Publish(ctx, payloadJSON); err != nil {
		s.log.Error("SupportService", "Failed to publish turn snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
