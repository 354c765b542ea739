package implementation

import (
	"context"
	"errors"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SyncHistoryRepositoryImpl struct {
	db *gorm.DB
}

func NewSyncHistoryRepository(db *gorm.DB) contract.SyncHistoryRepository {
	return &SyncHistoryRepositoryImpl{
		db: db,
	}
}

func (r *SyncHistoryRepositoryImpl) Create(ctx context.Context, history *entity.SyncHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *SyncHistoryRepositoryImpl) FindLatest(ctx context.Context) (*entity.SyncHistory, error) {
	var history entity.SyncHistory
	err := r.db.WithContext(ctx).Order("timestamp DESC").First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}
