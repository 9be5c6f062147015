package leave

type SubmitLeaveRequest struct {
	LeaveType      string  `json:"leave_type" binding:"required,oneof=SICK CASUAL EARNED COMP_OFF PATERNITY_MATERNITY"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        string  `json:"end_date" binding:"required"`
	IsHalfDay      bool    `json:"is_half_day"`
	HalfDaySession *string `json:"half_day_session" binding:"omitempty,oneof=FIRST_HALF SECOND_HALF"`
	Reason         string  `json:"reason"`
}

type DecideLeaveRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approve reject"`
	Comments *string `json:"comments"`
}

type ApprovalResponse struct {
	ApproverID    string  `json:"approver_id"`
	ApprovalOrder int     `json:"approval_order"`
	Status        string  `json:"status"`
	Comments      *string `json:"comments,omitempty"`
	DecidedAt     *string `json:"decided_at,omitempty"`
}

type LeaveRequestResponse struct {
	ID                   string             `json:"id"`
	CompanyID            string             `json:"company_id"`
	EmployeeID           string             `json:"employee_id"`
	LeaveType            string             `json:"leave_type"`
	StartDate            string             `json:"start_date"`
	EndDate              string             `json:"end_date"`
	IsHalfDay            bool               `json:"is_half_day"`
	HalfDaySession       *string            `json:"half_day_session,omitempty"`
	DaysCount            string             `json:"days_count"`
	Reason               string             `json:"reason"`
	Status               string             `json:"status"`
	CurrentApprovalLevel int                `json:"current_approval_level"`
	TotalApprovalLevels  int                `json:"total_approval_levels"`
	Message              string             `json:"message,omitempty"`
	Approvals            []ApprovalResponse `json:"approvals,omitempty"`
}
