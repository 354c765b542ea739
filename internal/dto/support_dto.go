package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type SupportChatRequest struct {
	Messages []ChatMessageDTO `json:"messages" validate:"dive"`
}

// PublishTurnSnapshotMessage is the event payload carried over the bus from
// the augmentation service to the snapshot consumer.
type PublishTurnSnapshotMessage struct {
	Products      json.RawMessage `json:"products"`
	Orders        json.RawMessage `json:"orders"`
	ProductMatch  string          `json:"product_match"`
	WantsProducts bool            `json:"wants_products"`
	WantsOrders   bool            `json:"wants_orders"`
	Reply         string          `json:"reply"`
	CompletedAt   time.Time       `json:"completed_at"`
}

type SyncHistoryResponse struct {
	Id                 uuid.UUID       `json:"id"`
	CommerceData       json.RawMessage `json:"commerceData"`
	ExternalSystemData json.RawMessage `json:"externalSystemData"`
	Analysis           json.RawMessage `json:"analysis"`
	Actions            json.RawMessage `json:"actions"`
	Timestamp          time.Time       `json:"timestamp"`
}
