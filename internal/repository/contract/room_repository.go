package contract

import (
	"context"

	"krackenx-chat-be/internal/entity"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindById(ctx context.Context, id uint) (*entity.Room, error)

	// FindDirectRoomByPair looks up the direct room for the canonically
	// ordered user pair (minId < maxId). Returns nil when no such room
	// exists yet.
	FindDirectRoomByPair(ctx context.Context, minId, maxId uint) (*entity.Room, error)

	AddParticipant(ctx context.Context, roomId, userId uint) error
	ListRoomsForUser(ctx context.Context, userId uint) ([]*entity.Room, error)
}
