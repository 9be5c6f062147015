package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

const (
	SessionFirstHalf  = "FIRST_HALF"
	SessionSecondHalf = "SECOND_HALF"
)

// LeaveRequest walks a fixed approval chain one level at a time.
// CurrentApprovalLevel is 0-based; the approval row whose order equals
// CurrentApprovalLevel+1 is the only one that may be decided next.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType      string          `gorm:"type:varchar(30);not null"`
	StartDate      time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate        time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	IsHalfDay      bool            `gorm:"not null;default:false"`
	HalfDaySession *string         `gorm:"type:varchar(15)"`
	DaysCount      decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Reason         string          `gorm:"type:text"`

	Status               string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`
	CurrentApprovalLevel int    `gorm:"not null;default:0"`
	TotalApprovalLevels  int    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Approvals []LeaveApproval `gorm:"foreignKey:LeaveRequestID;constraint:OnDelete:CASCADE"`
}

// LeaveApproval is one level of a request's chain. Orders are contiguous
// starting at 1 and each row is decided at most once.
type LeaveApproval struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_approvals_request_order"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approvals_approver"`
	ApprovalOrder  int       `gorm:"not null;uniqueIndex:uq_leave_approvals_request_order"`
	Status         string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Comments       *string   `gorm:"type:text"`
	DecidedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *LeaveRequest) IsTerminal() bool {
	return r.Status != StatusPending
}
