package mapper

import (
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) RoomToEntity(r *model.ChatRoom) *entity.Room {
	if r == nil {
		return nil
	}
	return &entity.Room{
		Id:        r.Id,
		Name:      r.Name,
		RoomType:  entity.RoomType(r.RoomType),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) RoomToModel(r *entity.Room) *model.ChatRoom {
	if r == nil {
		return nil
	}
	return &model.ChatRoom{
		Id:        r.Id,
		Name:      r.Name,
		RoomType:  string(r.RoomType),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) RoomsToEntities(rooms []*model.ChatRoom) []*entity.Room {
	entities := make([]*entity.Room, len(rooms))
	for i, r := range rooms {
		entities[i] = m.RoomToEntity(r)
	}
	return entities
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:        msg.Id,
		UserId:    msg.UserId,
		RoomId:    msg.RoomId,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:        msg.Id,
		UserId:    msg.UserId,
		RoomId:    msg.RoomId,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
}
