package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SyncHistory struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommerceData       datatypes.JSON
	ExternalSystemData datatypes.JSON
	Analysis           datatypes.JSON
	Actions            datatypes.JSON
	Timestamp          time.Time `gorm:"index"`
}
