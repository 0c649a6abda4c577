package model

import "time"

type Friend struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	UserId    uint      `gorm:"not null;uniqueIndex:idx_friend_pair;index"`
	FriendId  uint      `gorm:"not null;uniqueIndex:idx_friend_pair;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Friend) TableName() string {
	return "friends"
}

type FriendRequest struct {
	Id         uint      `gorm:"primaryKey;autoIncrement"`
	FromUserId uint      `gorm:"not null;uniqueIndex:idx_request_pair"`
	ToUserId   uint      `gorm:"not null;uniqueIndex:idx_request_pair;index"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}
