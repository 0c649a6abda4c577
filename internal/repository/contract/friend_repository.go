package contract

import (
	"context"

	"krackenx-chat-be/internal/entity"
)

type FriendRepository interface {
	// UpsertPending inserts a canonical pending friend row for the ordered
	// pair (minId < maxId); it is a no-op when the pair already exists.
	UpsertPending(ctx context.Context, minId, maxId uint) error
	UpdatePairStatus(ctx context.Context, minId, maxId uint, status entity.FriendStatus) error
	ListForUser(ctx context.Context, userId uint) ([]*entity.FriendInfo, error)

	CreateRequest(ctx context.Context, request *entity.FriendRequest) error
	FindPendingRequestsFor(ctx context.Context, toUserId uint) ([]*entity.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, fromUserId, toUserId uint, status entity.FriendStatus) error
}
