// FILE: internal/service/admin_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/pkg/logger"
	"krackenx-chat-be/internal/repository/specification"
	"krackenx-chat-be/internal/repository/unitofwork"

	"krackenx-chat-be/pkg/events"
	pktNats "krackenx-chat-be/pkg/nats"
)

// SupportNotifier pushes an operator announcement to every live connection.
// The websocket hub satisfies this.
type SupportNotifier interface {
	BroadcastSupportMessage(message string)
}

type IAdminService interface {
	ListUsers(ctx context.Context) ([]*dto.UserResponse, error)
	DeleteUsers(ctx context.Context, ids []uint) error
	DeleteMessages(ctx context.Context, roomId *uint) error
	GetLogs(ctx context.Context, query *dto.LogsQuery) ([]logger.LogEntry, error)
	SendSupportMessage(ctx context.Context, message string) error
}

type adminService struct {
	uowFactory     unitofwork.RepositoryFactory
	notifier       SupportNotifier
	logger         logger.ILogger
	eventPublisher *pktNats.Publisher
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, notifier SupportNotifier, log logger.ILogger, eventPublisher *pktNats.Publisher) IAdminService {
	return &adminService{
		uowFactory:     uowFactory,
		notifier:       notifier,
		logger:         log,
		eventPublisher: eventPublisher,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Expression: "id asc"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		avatarURL := ""
		if u.AvatarURL != nil {
			avatarURL = *u.AvatarURL
		}
		res = append(res, &dto.UserResponse{
			Id:        u.Id,
			Username:  u.Username,
			Email:     u.Email,
			AvatarURL: avatarURL,
		})
	}
	return res, nil
}

func (s *adminService) DeleteUsers(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().DeleteByIds(ctx, ids); err != nil {
		return err
	}
	if err := uow.SystemLogRepository().Record(ctx, "admin.delete_users", nil, map[string]interface{}{
		"user_ids": ids,
	}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishAudit(ctx, "ADMIN_USERS_DELETED", map[string]interface{}{"user_ids": ids})
	return nil
}

func (s *adminService) DeleteMessages(ctx context.Context, roomId *uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	details := map[string]interface{}{}
	var err error
	if roomId != nil {
		details["room_id"] = *roomId
		err = uow.MessageRepository().DeleteByRoom(ctx, *roomId)
	} else {
		details["scope"] = "all"
		err = uow.MessageRepository().DeleteAll(ctx)
	}
	if err != nil {
		return err
	}

	if err := uow.SystemLogRepository().Record(ctx, "admin.delete_messages", nil, details); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishAudit(ctx, "ADMIN_MESSAGES_DELETED", details)
	return nil
}

func (s *adminService) GetLogs(ctx context.Context, query *dto.LogsQuery) ([]logger.LogEntry, error) {
	limit := query.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.logger.GetLogs(query.Level, limit, query.Offset)
}

func (s *adminService) SendSupportMessage(ctx context.Context, message string) error {
	s.notifier.BroadcastSupportMessage(message)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SystemLogRepository().Record(ctx, "admin.support_message", nil, map[string]interface{}{
		"message": message,
	}); err != nil {
		return err
	}

	s.publishAudit(ctx, "ADMIN_SUPPORT_MESSAGE", map[string]interface{}{"message": message})
	return nil
}

func (s *adminService) publishAudit(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
