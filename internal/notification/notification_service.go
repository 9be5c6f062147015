package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, companyID, recipientID, notifType, title, message, referenceID string) error
	GetForRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
	CountUnread(ctx context.Context, companyID, recipientID string) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Notify(ctx context.Context, companyID, recipientID, notifType, title, message, referenceID string) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return err
	}
	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		RecipientID: recipientUUID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("persist notification failed",
			zap.String("recipient_id", recipientID),
			zap.String("type", notifType),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("notification created",
		zap.String("recipient_id", recipientID),
		zap.String("type", notifType),
	)
	return nil
}

func (s *service) GetForRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.FindByRecipient(ctx, companyID, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = NotificationResponse{
			ID:          n.ID.String(),
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			ReferenceID: n.ReferenceID,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	affected, err := s.repo.MarkRead(ctx, companyID, recipientID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logger.Debug("mark read matched nothing",
			zap.String("notification_id", id),
			zap.String("recipient_id", recipientID),
		)
	}
	return nil
}

func (s *service) CountUnread(ctx context.Context, companyID, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, companyID, recipientID)
}
