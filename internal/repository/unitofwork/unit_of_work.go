package unitofwork

import (
	"context"

	"krackenx-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	RoomRepository() contract.RoomRepository
	MessageRepository() contract.MessageRepository
	FriendRepository() contract.FriendRepository
	SystemLogRepository() contract.SystemLogRepository
}
