package leave

import (
	"context"

	leaveerrors "leaveflow/internal/leave/errors"

	"github.com/google/uuid"
)

// DefaultApprovalLevels is the policy chain depth: direct manager, then a
// designated admin approver.
const DefaultApprovalLevels = 2

// ApproverResolver is the org-hierarchy lookup the chain builder consumes.
// The employee module provides the production implementation.
type ApproverResolver interface {
	ResolveManager(ctx context.Context, companyID, employeeID string) (*uuid.UUID, error)
	ResolveAdminApprover(ctx context.Context, companyID string) (uuid.UUID, error)
}

// ChainBuilder materializes the ordered approver list for a submitter:
// levels 1..N-1 walk up the manager chain, the final level is always the
// admin approver. Chains never contain the submitter or duplicates.
type ChainBuilder struct {
	resolver ApproverResolver
	levels   int
}

func NewChainBuilder(resolver ApproverResolver, levels int) *ChainBuilder {
	if levels < 1 {
		levels = DefaultApprovalLevels
	}
	return &ChainBuilder{resolver: resolver, levels: levels}
}

func (b *ChainBuilder) BuildChain(ctx context.Context, companyID, employeeID string) ([]uuid.UUID, error) {
	submitterID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	seen := map[uuid.UUID]bool{submitterID: true}
	chain := make([]uuid.UUID, 0, b.levels)

	current := employeeID
	for len(chain) < b.levels-1 {
		managerID, err := b.resolver.ResolveManager(ctx, companyID, current)
		if err != nil {
			return nil, err
		}
		if managerID == nil || seen[*managerID] {
			// Chain tops out early; the admin level still applies.
			break
		}
		seen[*managerID] = true
		chain = append(chain, *managerID)
		current = managerID.String()
	}

	adminID, err := b.resolver.ResolveAdminApprover(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if adminID == uuid.Nil {
		return nil, leaveerrors.ErrNoApproverAvailable
	}
	if !seen[adminID] {
		chain = append(chain, adminID)
	}

	if len(chain) == 0 {
		return nil, leaveerrors.ErrNoApproverAvailable
	}
	return chain, nil
}

// materializeChain creates one pending approval row per chain level with
// contiguous 1-based orders.
func materializeChain(requestID uuid.UUID, approverIDs []uuid.UUID) []LeaveApproval {
	approvals := make([]LeaveApproval, len(approverIDs))
	for i, approverID := range approverIDs {
		approvals[i] = LeaveApproval{
			ID:             uuid.New(),
			LeaveRequestID: requestID,
			ApproverID:     approverID,
			ApprovalOrder:  i + 1,
			Status:         ApprovalStatusPending,
		}
	}
	return approvals
}
