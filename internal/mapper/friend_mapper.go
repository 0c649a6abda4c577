package mapper

import (
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/model"
)

type FriendMapper struct{}

func NewFriendMapper() *FriendMapper {
	return &FriendMapper{}
}

func (m *FriendMapper) ToEntity(f *model.Friend) *entity.Friend {
	if f == nil {
		return nil
	}
	return &entity.Friend{
		Id:        f.Id,
		UserId:    f.UserId,
		FriendId:  f.FriendId,
		Status:    entity.FriendStatus(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (m *FriendMapper) ToModel(f *entity.Friend) *model.Friend {
	if f == nil {
		return nil
	}
	return &model.Friend{
		Id:        f.Id,
		UserId:    f.UserId,
		FriendId:  f.FriendId,
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (m *FriendMapper) RequestToEntity(r *model.FriendRequest) *entity.FriendRequest {
	if r == nil {
		return nil
	}
	return &entity.FriendRequest{
		Id:         r.Id,
		FromUserId: r.FromUserId,
		ToUserId:   r.ToUserId,
		Status:     entity.FriendStatus(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

func (m *FriendMapper) RequestToModel(r *entity.FriendRequest) *model.FriendRequest {
	if r == nil {
		return nil
	}
	return &model.FriendRequest{
		Id:         r.Id,
		FromUserId: r.FromUserId,
		ToUserId:   r.ToUserId,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

func (m *FriendMapper) RequestsToEntities(requests []*model.FriendRequest) []*entity.FriendRequest {
	entities := make([]*entity.FriendRequest, len(requests))
	for i, r := range requests {
		entities[i] = m.RequestToEntity(r)
	}
	return entities
}
