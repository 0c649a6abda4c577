package model

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog records admin actions (user purges, message purges, support
// broadcasts) for the audit trail behind /api/admin/logs.
type SystemLog struct {
	Id        uint           `gorm:"primaryKey;autoIncrement"`
	Action    string         `gorm:"type:varchar(100);not null;index"`
	ActorId   *uint          `gorm:"index"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
