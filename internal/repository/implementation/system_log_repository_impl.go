package implementation

import (
	"context"
	"encoding/json"
	"time"

	"krackenx-chat-be/internal/model"
	"krackenx-chat-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Record(ctx context.Context, action string, actorId *uint, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model.SystemLog{
		Action:  action,
		ActorId: actorId,
		Details: datatypes.JSON(payload),
	}).Error
}

func (r *SystemLogRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("created_at <= ?", time.Now()).Delete(&model.SystemLog{}).Error
}
