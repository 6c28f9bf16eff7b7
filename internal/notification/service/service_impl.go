package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/notification/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		clock: clk,
		log:   log.Named("notification.service"),
	}
}

func (s *service) Notify(ctx context.Context, userID snowflake.ID, text string) error {
	return s.NotifyAll(ctx, []snowflake.ID{userID}, text)
}

func (s *service) NotifyAll(ctx context.Context, userIDs []snowflake.ID, text string) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := s.clock.Now()
	notifications := make([]domain.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notifications = append(notifications, domain.Notification{
			ID:        s.genID.Generate(),
			UserID:    userID,
			Text:      text,
			Status:    domain.StatusUnread,
			CreatedAt: now,
		})
	}

	if err := s.repo.Create(ctx, notifications); err != nil {
		return err
	}
	s.log.Debug("notifications written", zap.Int("count", len(notifications)))
	return nil
}

func (s *service) ListOwn(ctx context.Context, actorID snowflake.ID, page pagination.Page) ([]domain.NotificationResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByUser(ctx, actorID, page)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		resp = append(resp, *toResponse(notification))
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, actorID snowflake.ID, id string) (*domain.NotificationResponse, error) {
	return s.setStatus(ctx, actorID, id, domain.StatusRead)
}

func (s *service) MarkUnread(ctx context.Context, actorID snowflake.ID, id string) (*domain.NotificationResponse, error) {
	return s.setStatus(ctx, actorID, id, domain.StatusUnread)
}

func (s *service) setStatus(ctx context.Context, actorID snowflake.ID, id string, status domain.Status) (*domain.NotificationResponse, error) {
	notificationID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotificationNotFound
	}

	notification, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if err := permission.GrantUser(notification.UserID, actorID, "update"); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, notification.ID, status); err != nil {
		return nil, err
	}
	notification.Status = status
	return toResponse(*notification), nil
}

func toResponse(notification domain.Notification) *domain.NotificationResponse {
	return &domain.NotificationResponse{
		ID:        notification.ID.String(),
		UserID:    notification.UserID.String(),
		Text:      notification.Text,
		Status:    notification.Status,
		CreatedAt: notification.CreatedAt,
	}
}
