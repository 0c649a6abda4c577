package contract

import (
	"context"

	"krackenx-chat-be/internal/entity"
)

type MessageRepository interface {
	// Create persists the message and fills in the stored id and timestamp.
	Create(ctx context.Context, message *entity.Message) error

	// FindRecentByRoom returns at most limit of the newest messages for the
	// room, in chronological ascending order, with usernames resolved.
	FindRecentByRoom(ctx context.Context, roomId uint, limit int) ([]*entity.Message, error)

	DeleteByRoom(ctx context.Context, roomId uint) error
	DeleteAll(ctx context.Context) error
}
