package entity

import "time"

type RoomType string

const (
	RoomTypeGeneral RoomType = "general"
	RoomTypeDirect  RoomType = "direct"
)

type Room struct {
	Id        uint
	Name      string
	RoomType  RoomType
	CreatedBy *uint
	CreatedAt time.Time
}

type RoomParticipant struct {
	RoomId   uint
	UserId   uint
	JoinedAt time.Time
}

// Message is a persisted chat message. Username is denormalized from the
// users table when messages are read back for history or broadcast.
type Message struct {
	Id        uint
	UserId    uint
	RoomId    uint
	Username  string
	Content   string
	Timestamp time.Time
}
