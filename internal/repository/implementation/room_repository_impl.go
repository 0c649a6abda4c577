package implementation

import (
	"context"
	"errors"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/mapper"
	"krackenx-chat-be/internal/model"
	"krackenx-chat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewRoomRepository(db *gorm.DB) contract.RoomRepository {
	return &RoomRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *RoomRepositoryImpl) Create(ctx context.Context, room *entity.Room) error {
	m := r.mapper.RoomToModel(room)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*room = *r.mapper.RoomToEntity(m)
	return nil
}

func (r *RoomRepositoryImpl) FindById(ctx context.Context, id uint) (*entity.Room, error) {
	var m model.ChatRoom
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RoomToEntity(&m), nil
}

func (r *RoomRepositoryImpl) FindDirectRoomByPair(ctx context.Context, minId, maxId uint) (*entity.Room, error) {
	var m model.ChatRoom
	err := r.db.WithContext(ctx).
		Where("room_type = ?", string(entity.RoomTypeDirect)).
		Where("EXISTS (SELECT 1 FROM chat_room_participants p1 WHERE p1.room_id = chat_rooms.id AND p1.user_id = ?)", minId).
		Where("EXISTS (SELECT 1 FROM chat_room_participants p2 WHERE p2.room_id = chat_rooms.id AND p2.user_id = ?)", maxId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RoomToEntity(&m), nil
}

func (r *RoomRepositoryImpl) AddParticipant(ctx context.Context, roomId, userId uint) error {
	// ON CONFLICT DO NOTHING on the composite key keeps re-enrollment
	// idempotent.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ChatRoomParticipant{RoomId: roomId, UserId: userId}).Error
}

func (r *RoomRepositoryImpl) ListRoomsForUser(ctx context.Context, userId uint) ([]*entity.Room, error) {
	var models []*model.ChatRoom
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_room_participants p ON p.room_id = chat_rooms.id").
		Where("p.user_id = ?", userId).
		Order("chat_rooms.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.RoomsToEntities(models), nil
}
