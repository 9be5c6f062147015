package employee_test

import (
	"context"
	"testing"
	"time"

	"leaveflow/internal/balance"
	"leaveflow/internal/employee"
	employeeerrors "leaveflow/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeEmployeeRepository struct {
	withTxFn             func(tx *gorm.DB) employee.Repository
	createFn             func(ctx context.Context, empl *employee.Employee) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]employee.Employee, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
	findManagerIDFn      func(ctx context.Context, companyID, employeeID string) (*string, error)
	findOldestByRoleFn   func(ctx context.Context, companyID, role string) (*employee.Employee, error)
	updateFn             func(ctx context.Context, empl *employee.Employee) error
	deleteFn             func(ctx context.Context, companyID, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindManagerID(ctx context.Context, companyID, employeeID string) (*string, error) {
	if f.findManagerIDFn != nil {
		return f.findManagerIDFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindOldestByRole(ctx context.Context, companyID, role string) (*employee.Employee, error) {
	if f.findOldestByRoleFn != nil {
		return f.findOldestByRoleFn(ctx, companyID, role)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type fakeSeedLedger struct {
	seeded *balance.LeaveBalance
}

func (f *fakeSeedLedger) WithTx(tx *gorm.DB) balance.Repository { return f }

func (f *fakeSeedLedger) Create(ctx context.Context, b *balance.LeaveBalance) error {
	f.seeded = b
	return nil
}

func (f *fakeSeedLedger) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*balance.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSeedLedger) DebitBucket(ctx context.Context, employeeID string, year int, column string, days decimal.Decimal) (int64, error) {
	return 1, nil
}

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return gdb, mock
}

func TestEmployeeService_Create(t *testing.T) {
	companyID := uuid.New()

	req := employee.CreateEmployeeRequest{
		FullName:         "Ana Widya",
		Email:            "ana@acme.test",
		EmployeeNumber:   "EMP-0042",
		HireDate:         "2024-06-01",
		EmploymentStatus: "ACTIVE",
	}

	t.Run("success seeds current year balance", func(t *testing.T) {
		gdb, sqlMock := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeEmployeeRepository{}
		ledger := &fakeSeedLedger{}
		svc := employee.NewService(gdb, repo, ledger, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		var created *employee.Employee
		repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			created = empl
			return nil
		}
		redisMock.ExpectDel(employee.GetEmployeeOptionsKey(companyID.String())).SetVal(1)

		resp, err := svc.Create(context.Background(), companyID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, employee.RoleEmployee, resp.Role)
		assert.NotNil(t, created)
		assert.NotNil(t, ledger.seeded)
		assert.Equal(t, created.ID, ledger.seeded.EmployeeID)
		assert.Equal(t, time.Now().UTC().Year(), ledger.seeded.Year)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative manager must exist in company", func(t *testing.T) {
		gdb, sqlMock := newGormMock(t)
		rdb, _ := redismock.NewClientMock()
		repo := &fakeEmployeeRepository{}
		svc := employee.NewService(gdb, repo, &fakeSeedLedger{}, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		managerID := uuid.New().String()
		withManager := req
		withManager.ManagerID = &managerID

		_, err := svc.Create(context.Background(), companyID.String(), withManager)

		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotInCompany)
	})

	t.Run("negative malformed manager id", func(t *testing.T) {
		gdb, sqlMock := newGormMock(t)
		rdb, _ := redismock.NewClientMock()
		svc := employee.NewService(gdb, &fakeEmployeeRepository{}, &fakeSeedLedger{}, rdb)

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		withManager := req
		bad := "not-a-uuid"
		withManager.ManagerID = &bad

		_, err := svc.Create(context.Background(), companyID.String(), withManager)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidManagerID)
	})
}

func TestEmployeeService_Update_SelfManager(t *testing.T) {
	gdb, sqlMock := newGormMock(t)
	rdb, _ := redismock.NewClientMock()

	companyID := uuid.New()
	employeeID := uuid.New()
	existing := &employee.Employee{
		ID:        employeeID,
		CompanyID: companyID,
		FullName:  "Ana Widya",
		Role:      employee.RoleEmployee,
	}
	repo := &fakeEmployeeRepository{
		findByIDAndCompanyFn: func(ctx context.Context, cID, id string) (*employee.Employee, error) {
			return existing, nil
		},
	}
	svc := employee.NewService(gdb, repo, &fakeSeedLedger{}, rdb)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	self := employeeID.String()
	_, err := svc.Update(context.Background(), companyID.String(), employeeID.String(), employee.UpdateEmployeeRequest{
		FullName:  "Ana Widya",
		Email:     "ana@acme.test",
		ManagerID: &self,
		HireDate:  "2024-06-01",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrSelfManager)
}
