package mapper

import (
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:            u.Id,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		AvatarURL:     u.AvatarURL,
		GithubId:      u.GithubId,
		IsOAuthUser:   u.IsOAuthUser,
		EmailVerified: u.EmailVerified,
		LastSeen:      u.LastSeen,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:            u.Id,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		AvatarURL:     u.AvatarURL,
		GithubId:      u.GithubId,
		IsOAuthUser:   u.IsOAuthUser,
		EmailVerified: u.EmailVerified,
		LastSeen:      u.LastSeen,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) VerificationTokenToEntity(t *model.EmailVerificationToken) *entity.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &entity.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Code:      t.Code,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) VerificationTokenToModel(t *entity.EmailVerificationToken) *model.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &model.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Code:      t.Code,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}
