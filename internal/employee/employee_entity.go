package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleHRAdmin  = "HR_ADMIN"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;index"`
	ManagerID        *uuid.UUID `gorm:"type:uuid;index"`
	FullName         string
	Email            string `gorm:"uniqueIndex"`
	EmployeeNumber   string
	Phone            string
	Role             string `gorm:"type:varchar(32);default:EMPLOYEE;index"`
	HireDate         time.Time
	EmploymentStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
