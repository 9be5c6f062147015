package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Leave type keys shared between the ledger and the approval engine.
const (
	LeaveTypeSick               = "SICK"
	LeaveTypeCasual             = "CASUAL"
	LeaveTypeEarned             = "EARNED"
	LeaveTypeCompOff            = "COMP_OFF"
	LeaveTypePaternityMaternity = "PATERNITY_MATERNITY"
)

// LeaveBalance is the per-employee, per-year entitlement ledger. Buckets
// are decimals because half-day leave consumes 0.5.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_year"`
	Year       int       `gorm:"not null;uniqueIndex:uq_leave_balances_employee_year"`

	SickLeave          decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	CasualLeave        decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	EarnedLeave        decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	CompOff            decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	PaternityMaternity decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	BirthdayLeave      decimal.Decimal `gorm:"type:numeric(5,1);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Annual entitlement defaults applied when a ledger row is lazily created.
// Paternity/maternity starts at zero and is granted by HR adjustment.
var bucketDefaults = map[string]decimal.Decimal{
	LeaveTypeSick:               decimal.NewFromInt(12),
	LeaveTypeCasual:             decimal.NewFromInt(12),
	LeaveTypeEarned:             decimal.NewFromInt(15),
	LeaveTypeCompOff:            decimal.NewFromInt(2),
	LeaveTypePaternityMaternity: decimal.Zero,
}

var birthdayLeaveDefault = decimal.NewFromInt(1)

// bucketColumns whitelists the ledger columns a debit may touch. Debit
// SQL is built from this map only, never from caller input.
var bucketColumns = map[string]string{
	LeaveTypeSick:               "sick_leave",
	LeaveTypeCasual:             "casual_leave",
	LeaveTypeEarned:             "earned_leave",
	LeaveTypeCompOff:            "comp_off",
	LeaveTypePaternityMaternity: "paternity_maternity",
}

// BucketColumn resolves a leave type to its ledger column.
func BucketColumn(leaveType string) (string, bool) {
	col, ok := bucketColumns[leaveType]
	return col, ok
}

// IsValidLeaveType reports whether leaveType maps to a debitable bucket.
func IsValidLeaveType(leaveType string) bool {
	_, ok := bucketColumns[leaveType]
	return ok
}

// NewWithDefaults builds a fresh ledger row with annual defaults.
func NewWithDefaults(companyID, employeeID uuid.UUID, year int) *LeaveBalance {
	return &LeaveBalance{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		EmployeeID:         employeeID,
		Year:               year,
		SickLeave:          bucketDefaults[LeaveTypeSick],
		CasualLeave:        bucketDefaults[LeaveTypeCasual],
		EarnedLeave:        bucketDefaults[LeaveTypeEarned],
		CompOff:            bucketDefaults[LeaveTypeCompOff],
		PaternityMaternity: bucketDefaults[LeaveTypePaternityMaternity],
		BirthdayLeave:      birthdayLeaveDefault,
	}
}

// Bucket returns the remaining amount for a leave type.
func (b *LeaveBalance) Bucket(leaveType string) (decimal.Decimal, bool) {
	switch leaveType {
	case LeaveTypeSick:
		return b.SickLeave, true
	case LeaveTypeCasual:
		return b.CasualLeave, true
	case LeaveTypeEarned:
		return b.EarnedLeave, true
	case LeaveTypeCompOff:
		return b.CompOff, true
	case LeaveTypePaternityMaternity:
		return b.PaternityMaternity, true
	default:
		return decimal.Zero, false
	}
}

// CheckSufficient reports whether the bucket for leaveType still holds at
// least days. Pure; the authoritative re-check happens at debit time.
func CheckSufficient(b *LeaveBalance, leaveType string, days decimal.Decimal) bool {
	remaining, ok := b.Bucket(leaveType)
	if !ok {
		return false
	}
	return remaining.GreaterThanOrEqual(days)
}
