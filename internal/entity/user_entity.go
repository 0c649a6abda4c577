package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id            uint
	Username      string
	Email         string
	PasswordHash  *string
	AvatarURL     *string
	GithubId      *string
	IsOAuthUser   bool
	EmailVerified bool
	LastSeen      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uint
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
