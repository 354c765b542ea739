package contract

import (
	"context"

	"support-chat-be/internal/entity"
)

type SyncHistoryRepository interface {
	Create(ctx context.Context, history *entity.SyncHistory) error
	// FindLatest returns the most recent snapshot, or nil when none exist.
	FindLatest(ctx context.Context) (*entity.SyncHistory, error)
}
