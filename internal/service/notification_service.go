package service

import (
	"context"
	"log/slog"

	"github.com/landseek/backend/internal/model"
	"github.com/landseek/backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint64, typ, title, body, subjectType string, subjectID *uint64)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	relay Relay
	log   *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, relay Relay, log *slog.Logger) NotificationService {
	if relay == nil {
		relay = NopRelay{}
	}
	return &notificationService{repo: repo, relay: relay, log: log}
}

// Notify is best-effort; it logs errors but does not return them to avoid
// breaking the flow that produced the notification.
func (s *notificationService) Notify(ctx context.Context, userID uint64, typ, title, body, subjectType string, subjectID *uint64) {
	if userID == 0 || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:      userID,
		Type:        typ,
		Title:       title,
		Body:        body,
		SubjectType: subjectType,
		SubjectID:   subjectID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("notification insert failed", "user", userID, "type", typ, "err", err)
		return
	}
	s.relay.DeliverNotification(n)
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userID == 0 {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userID)
}
