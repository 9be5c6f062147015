package employee_test

import (
	"context"
	"testing"

	"leaveflow/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestResolver_ResolveManager(t *testing.T) {
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	managerID := uuid.New()

	t.Run("returns manager id", func(t *testing.T) {
		v := managerID.String()
		repo := &fakeEmployeeRepository{
			findManagerIDFn: func(ctx context.Context, cID, eID string) (*string, error) {
				return &v, nil
			},
		}

		got, err := employee.NewResolver(repo).ResolveManager(context.Background(), companyID, employeeID)

		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, managerID, *got)
	})

	t.Run("no manager yields nil", func(t *testing.T) {
		repo := &fakeEmployeeRepository{}

		got, err := employee.NewResolver(repo).ResolveManager(context.Background(), companyID, employeeID)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty manager id yields nil", func(t *testing.T) {
		empty := ""
		repo := &fakeEmployeeRepository{
			findManagerIDFn: func(ctx context.Context, cID, eID string) (*string, error) {
				return &empty, nil
			},
		}

		got, err := employee.NewResolver(repo).ResolveManager(context.Background(), companyID, employeeID)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestResolver_ResolveAdminApprover(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("returns oldest hr admin", func(t *testing.T) {
		adminID := uuid.New()
		repo := &fakeEmployeeRepository{
			findOldestByRoleFn: func(ctx context.Context, cID, role string) (*employee.Employee, error) {
				assert.Equal(t, employee.RoleHRAdmin, role)
				return &employee.Employee{ID: adminID, Role: employee.RoleHRAdmin}, nil
			},
		}

		got, err := employee.NewResolver(repo).ResolveAdminApprover(context.Background(), companyID)

		assert.NoError(t, err)
		assert.Equal(t, adminID, got)
	})

	t.Run("no hr admin yields nil uuid", func(t *testing.T) {
		repo := &fakeEmployeeRepository{
			findOldestByRoleFn: func(ctx context.Context, cID, role string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		got, err := employee.NewResolver(repo).ResolveAdminApprover(context.Background(), companyID)

		assert.NoError(t, err)
		assert.Equal(t, uuid.Nil, got)
	})
}
