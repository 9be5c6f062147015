package events

import "time"

const LeaveDecisionTopic = "hr.leave.decision.v1"

const (
	EventTypeLeaveApproved      = "leave_approved"
	EventTypeLeaveFullyApproved = "leave_fully_approved"
	EventTypeLeaveRejected      = "leave_rejected"
	EventTypeLeaveCancelled     = "leave_cancelled"
)

type LeaveDecisionEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	ApproverID     string    `json:"approver_id,omitempty"`
	Level          int       `json:"level,omitempty"`
	NextApproverID string    `json:"next_approver_id,omitempty"`
	Message        string    `json:"message"`
	OccurredAt     time.Time `json:"occurred_at"`
}
