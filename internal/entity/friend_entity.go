package entity

import "time"

type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
	FriendStatusDeclined FriendStatus = "declined"
)

// Friend rows are stored once per pair in canonical order
// (UserId < FriendId) so the pair lookup is a single query.
type Friend struct {
	Id        uint
	UserId    uint
	FriendId  uint
	Status    FriendStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FriendRequest struct {
	Id         uint
	FromUserId uint
	ToUserId   uint
	Status     FriendStatus
	CreatedAt  time.Time
}

// FriendInfo is the read model for friend listings: the other side of the
// pair plus the relationship status.
type FriendInfo struct {
	UserId   uint
	Username string
	Status   FriendStatus
}
