package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) (int64, error)
	CountUnread(ctx context.Context, companyID, recipientID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByRecipient(ctx context.Context, companyID, recipientID string, unreadOnly bool) ([]Notification, error) {
	var result []Notification
	q := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").Limit(100).Find(&result).Error
	return result, err
}

func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) CountUnread(ctx context.Context, companyID, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}
