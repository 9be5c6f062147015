package employee

type CreateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	EmployeeNumber   string  `json:"employee_number"`
	Phone            string  `json:"phone"`
	Role             string  `json:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER HR_ADMIN"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status"`
}

type UpdateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	EmployeeNumber   string  `json:"employee_number"`
	Phone            string  `json:"phone"`
	Role             string  `json:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER HR_ADMIN"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	ManagerID        string `json:"manager_id,omitempty"`
	EmployeeNumber   string `json:"employee_number"`
	Phone            string `json:"phone"`
	Role             string `json:"role"`
	HireDate         string `json:"hire_date"`
	EmploymentStatus string `json:"employment_status"`
	CompanyID        string `json:"company_id"`
}
