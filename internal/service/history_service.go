package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrHistoryDisabled = errors.New("snapshot history is not configured")
	ErrNoSnapshots     = errors.New("no snapshots have been recorded yet")
)

type IHistoryService interface {
	RecordTurnSnapshot(ctx context.Context, payload *dto.PublishTurnSnapshotMessage) error
	Latest(ctx context.Context) (*dto.SyncHistoryResponse, error)
}

type historyService struct {
	// repo is nil when no database connection was configured. All operations
	// then degrade to ErrHistoryDisabled.
	repo contract.SyncHistoryRepository
	log  logger.ILogger
}

func NewHistoryService(repo contract.SyncHistoryRepository, log logger.ILogger) IHistoryService {
	return &historyService{
		repo: repo,
		log:  log,
	}
}

func (s *historyService) RecordTurnSnapshot(ctx context.Context, payload *dto.PublishTurnSnapshotMessage) error {
	if s.repo == nil {
		return ErrHistoryDisabled
	}

	commerceData, err := json.Marshal(map[string]json.RawMessage{
		"products": nullIfEmpty(payload.Products),
		"orders":   nullIfEmpty(payload.Orders),
	})
	if err != nil {
		return err
	}

	analysis, err := json.Marshal(map[string]interface{}{
		"product_match":  payload.ProductMatch,
		"wants_products": payload.WantsProducts,
		"wants_orders":   payload.WantsOrders,
	})
	if err != nil {
		return err
	}

	actions, err := json.Marshal(map[string]string{
		"reply": payload.Reply,
	})
	if err != nil {
		return err
	}

	timestamp := payload.CompletedAt
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	history := &entity.SyncHistory{
		Id:                 uuid.New(),
		CommerceData:       datatypes.JSON(commerceData),
		ExternalSystemData: datatypes.JSON([]byte("null")),
		Analysis:           datatypes.JSON(analysis),
		Actions:            datatypes.JSON(actions),
		Timestamp:          timestamp,
	}

	if err := s.repo.Create(ctx, history); err != nil {
		return err
	}

	s.log.Info("HistoryService", "Turn snapshot recorded", map[string]interface{}{
		"id": history.Id.String(),
	})
	return nil
}

func (s *historyService) Latest(ctx context.Context) (*dto.SyncHistoryResponse, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}

	history, err := s.repo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, ErrNoSnapshots
	}

	return &dto.SyncHistoryResponse{
		Id:                 history.Id,
		CommerceData:       json.RawMessage(history.CommerceData),
		ExternalSystemData: json.RawMessage(history.ExternalSystemData),
		Analysis:           json.RawMessage(history.Analysis),
		Actions:            json.RawMessage(history.Actions),
		Timestamp:          history.Timestamp,
	}, nil
}

func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
