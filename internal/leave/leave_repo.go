package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRequest(ctx context.Context, l *LeaveRequest) error
	CreateApprovals(ctx context.Context, approvals []LeaveApproval) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindApprovals(ctx context.Context, requestID string) ([]LeaveApproval, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error)
	UpdateRequest(ctx context.Context, l *LeaveRequest) error
	UpdateApproval(ctx context.Context, a *LeaveApproval) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
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

func (r *repository) CreateRequest(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Approvals").Create(l).Error
}

func (r *repository) CreateApprovals(ctx context.Context, approvals []LeaveApproval) error {
	return r.db.WithContext(ctx).Create(&approvals).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	return &l, err
}

// FindByIDForUpdate takes a row lock on the request so concurrent decide
// calls serialize; the loser re-reads post-commit state and fails the
// status or sequence check instead of corrupting the chain.
func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindApprovals(ctx context.Context, requestID string) ([]LeaveApproval, error) {
	var approvals []LeaveApproval
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", requestID).
		Order("approval_order ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindPendingByApprover returns requests whose current chain position is
// assigned to the given approver.
func (r *repository) FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN leave_approvals ON leave_approvals.leave_request_id = leave_requests.id").
		Where("leave_requests.company_id = ?", companyID).
		Where("leave_requests.status = ?", StatusPending).
		Where("leave_approvals.approver_id = ?", approverID).
		Where("leave_approvals.approval_order = leave_requests.current_approval_level + 1").
		Order("leave_requests.created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateRequest(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Approvals").Save(l).Error
}

func (r *repository) UpdateApproval(ctx context.Context, a *LeaveApproval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusRejected, StatusCancelled}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}
