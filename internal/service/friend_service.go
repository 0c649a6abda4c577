// FILE: internal/service/friend_service.go
package service

import (
	"context"
	"errors"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/specification"
	"krackenx-chat-be/internal/repository/unitofwork"
)

type IFriendService interface {
	ListFriends(ctx context.Context, userId uint) ([]*entity.FriendInfo, error)
	PendingRequests(ctx context.Context, userId uint) ([]*dto.FriendRequestResponse, error)

	// SendRequest creates a pending friend request addressed by username.
	SendRequest(ctx context.Context, fromUserId uint, toUsername string) (*dto.FriendRequestResponse, error)

	// RespondByUsername resolves the proposer by username and settles the
	// request. Used by the websocket flow where only names travel.
	RespondByUsername(ctx context.Context, userId uint, fromUsername string, accept bool) error

	// Respond settles a request addressed by its id. Used by the REST flow.
	Respond(ctx context.Context, req *dto.RespondFriendRequestRequest) error
}

type friendService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFriendService(uowFactory unitofwork.RepositoryFactory) IFriendService {
	return &friendService{uowFactory: uowFactory}
}

func (s *friendService) ListFriends(ctx context.Context, userId uint) ([]*entity.FriendInfo, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FriendRepository().ListForUser(ctx, userId)
}

func (s *friendService) PendingRequests(ctx context.Context, userId uint) ([]*dto.FriendRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	requests, err := uow.FriendRepository().FindPendingRequestsFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		fromUsername := ""
		if from, _ := uow.UserRepository().FindOne(ctx, specification.ById{Id: r.FromUserId}); from != nil {
			fromUsername = from.Username
		}
		res = append(res, &dto.FriendRequestResponse{
			Id:           r.Id,
			FromUserId:   r.FromUserId,
			FromUsername: fromUsername,
			Status:       string(r.Status),
		})
	}
	return res, nil
}

func (s *friendService) SendRequest(ctx context.Context, fromUserId uint, toUsername string) (*dto.FriendRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	from, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: fromUserId})
	if err != nil || from == nil {
		return nil, errors.New("user not found")
	}
	if from.Username == toUsername {
		return nil, errors.New("cannot send a friend request to yourself")
	}

	to, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: toUsername})
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, errors.New("target user not found")
	}

	minId, maxId := fromUserId, to.Id
	if minId > maxId {
		minId, maxId = maxId, minId
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	request := &entity.FriendRequest{
		FromUserId: fromUserId,
		ToUserId:   to.Id,
		Status:     entity.FriendStatusPending,
	}
	if err := uow.FriendRepository().CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	if err := uow.FriendRepository().UpsertPending(ctx, minId, maxId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.FriendRequestResponse{
		Id:           request.Id,
		FromUserId:   fromUserId,
		FromUsername: from.Username,
		Status:       string(entity.FriendStatusPending),
	}, nil
}

func (s *friendService) RespondByUsername(ctx context.Context, userId uint, fromUsername string, accept bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	from, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: fromUsername})
	if err != nil {
		return err
	}
	if from == nil {
		return errors.New("requesting user not found")
	}

	return s.settle(ctx, uow, from.Id, userId, accept)
}

func (s *friendService) Respond(ctx context.Context, req *dto.RespondFriendRequestRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	requests, err := uow.FriendRepository().FindPendingRequestsFor(ctx, req.UserId)
	if err != nil {
		return err
	}
	for _, r := range requests {
		if r.Id == req.RequestId {
			return s.settle(ctx, uow, r.FromUserId, req.UserId, req.Response == "accepted")
		}
	}
	return errors.New("friend request not found")
}

func (s *friendService) settle(ctx context.Context, uow unitofwork.UnitOfWork, fromUserId, toUserId uint, accept bool) error {
	status := entity.FriendStatusAccepted
	if !accept {
		status = entity.FriendStatusDeclined
	}

	minId, maxId := fromUserId, toUserId
	if minId > maxId {
		minId, maxId = maxId, minId
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.FriendRepository().UpdateRequestStatus(ctx, fromUserId, toUserId, status); err != nil {
		return err
	}
	if err := uow.FriendRepository().UpdatePairStatus(ctx, minId, maxId, status); err != nil {
		return err
	}

	return uow.Commit()
}
