package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveAwaitingApproval = "LEAVE_AWAITING_APPROVAL"
	TypeLeaveDecision         = "LEAVE_DECISION"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;index"`
	RecipientID uuid.UUID `gorm:"type:uuid;index:idx_notifications_recipient"`
	Type        string    `gorm:"type:varchar(64)"`
	Title       string
	Message     string
	ReferenceID string `gorm:"type:uuid"`
	IsRead      bool   `gorm:"default:false;index:idx_notifications_recipient"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
