package implementation

import (
	"context"
	"time"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/mapper"
	"krackenx-chat-be/internal/model"
	"krackenx-chat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	username := message.Username
	*message = *r.mapper.MessageToEntity(m)
	message.Username = username
	return nil
}

type messageRow struct {
	model.Message
	Username string `gorm:"column:username"`
}

func (r *MessageRepositoryImpl) FindRecentByRoom(ctx context.Context, roomId uint, limit int) ([]*entity.Message, error) {
	// The newest `limit` rows, returned oldest first. Done in one query with
	// a subselect so the caller never has to reverse.
	var rows []messageRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT sub.*, u.username
		FROM (
			SELECT m.* FROM messages m
			WHERE m.room_id = ?
			ORDER BY m.timestamp DESC, m.id DESC
			LIMIT ?
		) sub
		JOIN users u ON u.id = sub.user_id
		ORDER BY sub.timestamp ASC, sub.id ASC
	`, roomId, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, len(rows))
	for i := range rows {
		msg := r.mapper.MessageToEntity(&rows[i].Message)
		msg.Username = rows[i].Username
		messages[i] = msg
	}
	return messages, nil
}

func (r *MessageRepositoryImpl) DeleteByRoom(ctx context.Context, roomId uint) error {
	return r.db.WithContext(ctx).Where("room_id = ?", roomId).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("timestamp <= ?", time.Now()).Delete(&model.Message{}).Error
}
