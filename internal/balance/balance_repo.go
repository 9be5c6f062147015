package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error)
	DebitBucket(ctx context.Context, employeeID string, year int, column string, days decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, companyID, employeeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		First(&b, "year = ?", year).Error
	return &b, err
}

// DebitBucket decrements one bucket with a guard so the balance can never
// go negative. Zero rows affected means the guard rejected the debit.
// column must come from BucketColumn.
func (r *repository) DebitBucket(ctx context.Context, employeeID string, year int, column string, days decimal.Decimal) (int64, error) {
	query := fmt.Sprintf(
		`UPDATE leave_balances SET %s = %s - ?, updated_at = NOW() WHERE employee_id = ? AND year = ? AND %s >= ?`,
		column, column, column,
	)

	res := r.db.WithContext(ctx).Exec(query, days, employeeID, year, days)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
