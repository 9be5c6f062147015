package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver answers org-hierarchy lookups for the leave approval chain.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) ResolveManager(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error) {
	managerID, err := r.repo.FindManagerID(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if managerID == nil || *managerID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*managerID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ResolveAdminApprover returns uuid.Nil when the company has no HR admin;
// the chain builder treats that as a configuration defect.
func (r *Resolver) ResolveAdminApprover(ctx context.Context, companyID string) (uuid.UUID, error) {
	empl, err := r.repo.FindOldestByRole(ctx, companyID, RoleHRAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return empl.ID, nil
}
