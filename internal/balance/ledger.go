package balance

import (
	"context"
	"errors"

	balanceerrors "leaveflow/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger operations used by the approval engine. Callers pass a tx-bound
// Repository so the debit lands in the same transaction as the request
// status flip.

// GetOrCreate returns the ledger row for (employee, year), lazily creating
// it with annual defaults. A concurrent create racing on the unique
// (employee_id, year) index is resolved by re-reading the winner's row.
func GetOrCreate(ctx context.Context, repo Repository, companyID, employeeID string, year int) (*LeaveBalance, error) {
	b, err := repo.FindByEmployeeAndYear(ctx, companyID, employeeID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	fresh := NewWithDefaults(companyUUID, employeeUUID, year)
	if err := repo.Create(ctx, fresh); err != nil {
		if isUniqueViolation(err) {
			return repo.FindByEmployeeAndYear(ctx, companyID, employeeID, year)
		}
		return nil, err
	}
	return fresh, nil
}

// Debit decrements the bucket for leaveType by days. The sufficiency guard
// runs inside the UPDATE itself, so a submission-time check that has gone
// stale cannot drive a bucket negative.
func Debit(ctx context.Context, repo Repository, employeeID string, year int, leaveType string, days decimal.Decimal) error {
	column, ok := BucketColumn(leaveType)
	if !ok {
		return balanceerrors.ErrInvalidLeaveType
	}

	affected, err := repo.DebitBucket(ctx, employeeID, year, column, days)
	if err != nil {
		return err
	}
	if affected == 0 {
		return balanceerrors.ErrInsufficientBalance
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
