package events

import "time"

const LeaveSubmittedTopic = "hr.leave.submitted.v1"

const EventTypeLeaveSubmitted = "leave_submitted"

type LeaveSubmittedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	NextApproverID string    `json:"next_approver_id"`
	LeaveType      string    `json:"leave_type"`
	DaysCount      string    `json:"days_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}
