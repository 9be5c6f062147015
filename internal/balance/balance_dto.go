package balance

type BalanceResponse struct {
	EmployeeID         string `json:"employee_id"`
	Year               int    `json:"year"`
	SickLeave          string `json:"sick_leave"`
	CasualLeave        string `json:"casual_leave"`
	EarnedLeave        string `json:"earned_leave"`
	CompOff            string `json:"comp_off"`
	PaternityMaternity string `json:"paternity_maternity"`
	BirthdayLeave      string `json:"birthday_leave"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:         b.EmployeeID.String(),
		Year:               b.Year,
		SickLeave:          b.SickLeave.String(),
		CasualLeave:        b.CasualLeave.String(),
		EarnedLeave:        b.EarnedLeave.String(),
		CompOff:            b.CompOff.String(),
		PaternityMaternity: b.PaternityMaternity.String(),
		BirthdayLeave:      b.BirthdayLeave.String(),
	}
}
