package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id            uint      `gorm:"primaryKey;autoIncrement"`
	Username      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash  *string   `gorm:"type:varchar(255)"`
	AvatarURL     *string   `gorm:"type:text"`
	GithubId      *string   `gorm:"type:varchar(255);index"`
	IsOAuthUser   bool      `gorm:"default:false"`
	EmailVerified bool      `gorm:"default:false"`
	LastSeen      time.Time `gorm:"autoCreateTime"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uint      `gorm:"not null;index"`
	Code      string    `gorm:"type:varchar(10);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
