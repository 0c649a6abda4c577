// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const defaultHistoryLimit = 50

type IChatService interface {
	// RoomHistory returns at most defaultHistoryLimit of the newest messages
	// for the room, oldest first.
	RoomHistory(ctx context.Context, roomId uint) ([]*entity.Message, error)

	// SaveMessage persists a message to the room and returns it with the
	// stored id and timestamp filled in.
	SaveMessage(ctx context.Context, userId uint, username string, roomId uint, content string) (*entity.Message, error)

	// GetOrCreateDirectRoom returns the direct room for the pair, creating
	// the room and both memberships on first use. The second return value
	// reports whether the room was created by this call.
	GetOrCreateDirectRoom(ctx context.Context, userA, userB uint) (*entity.Room, bool, error)

	// EnsureGeneralMembership makes the user a member of the General room.
	// Idempotent.
	EnsureGeneralMembership(ctx context.Context, userId uint) error

	ListRoomsForUser(ctx context.Context, userId uint) ([]*entity.Room, error)
	FindRoom(ctx context.Context, roomId uint) (*entity.Room, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	pubSub     *gochannel.GoChannel
	topicName  string
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, pubSub *gochannel.GoChannel, topicName string) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		pubSub:     pubSub,
		topicName:  topicName,
	}
}

func (s *chatService) RoomHistory(ctx context.Context, roomId uint) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().FindRecentByRoom(ctx, roomId, defaultHistoryLimit)
}

func (s *chatService) SaveMessage(ctx context.Context, userId uint, username string, roomId uint, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errors.New("message content is empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg := &entity.Message{
		UserId:   userId,
		RoomId:   roomId,
		Username: username,
		Content:  content,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	// Hand the persisted message to the in-process bus; the consumer keeps
	// last-seen timestamps current without blocking the send path.
	if s.pubSub != nil {
		payload, _ := json.Marshal(dto.MessagePersistedMessage{
			MessageId: msg.Id,
			UserId:    msg.UserId,
			RoomId:    msg.RoomId,
			Timestamp: msg.Timestamp,
		})
		if err := s.pubSub.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			fmt.Printf("[WARN] Failed to publish message-persisted event: %v\n", err)
		}
	}

	return msg, nil
}

func (s *chatService) GetOrCreateDirectRoom(ctx context.Context, userA, userB uint) (*entity.Room, bool, error) {
	if userA == userB {
		return nil, false, errors.New("cannot open a direct room with yourself")
	}

	minId, maxId := userA, userB
	if minId > maxId {
		minId, maxId = maxId, minId
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	room, err := uow.RoomRepository().FindDirectRoomByPair(ctx, minId, maxId)
	if err != nil {
		return nil, false, err
	}
	if room != nil {
		return room, false, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	room = &entity.Room{
		Name:      fmt.Sprintf("Direct %d-%d", minId, maxId),
		RoomType:  entity.RoomTypeDirect,
		CreatedBy: &minId,
		CreatedAt: time.Now(),
	}
	if err := uow.RoomRepository().Create(ctx, room); err != nil {
		return nil, false, err
	}
	if err := uow.RoomRepository().AddParticipant(ctx, room.Id, minId); err != nil {
		return nil, false, err
	}
	if err := uow.RoomRepository().AddParticipant(ctx, room.Id, maxId); err != nil {
		return nil, false, err
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}

	return room, true, nil
}

func (s *chatService) EnsureGeneralMembership(ctx context.Context, userId uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RoomRepository().AddParticipant(ctx, entity.GeneralRoomID, userId)
}

func (s *chatService) ListRoomsForUser(ctx context.Context, userId uint) ([]*entity.Room, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RoomRepository().ListRoomsForUser(ctx, userId)
}

func (s *chatService) FindRoom(ctx context.Context, roomId uint) (*entity.Room, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RoomRepository().FindById(ctx, roomId)
}
