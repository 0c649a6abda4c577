package model

import "time"

type ChatRoom struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	RoomType  string    `gorm:"type:varchar(20);not null;default:'general';index"`
	CreatedBy *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// ChatRoomParticipant's composite primary key doubles as the uniqueness
// constraint that makes concurrent direct-room creation benign.
type ChatRoomParticipant struct {
	RoomId   uint      `gorm:"primaryKey"`
	UserId   uint      `gorm:"primaryKey"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatRoomParticipant) TableName() string {
	return "chat_room_participants"
}

type Message struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	UserId    uint      `gorm:"not null;index"`
	RoomId    uint      `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
