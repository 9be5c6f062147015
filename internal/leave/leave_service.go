package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leaveflow/internal/balance"
	balanceerrors "leaveflow/internal/balance/errors"
	"leaveflow/internal/events"
	leaveerrors "leaveflow/internal/leave/errors"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/shared/apperror"
	"leaveflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// User-visible transition messages. "fully approved" is emitted only on
// the last-level transition.
const (
	MsgSubmitted     = "Leave request submitted"
	MsgApproved      = "Leave request approved"
	MsgFullyApproved = "Leave request fully approved"
	MsgRejected      = "Leave request rejected"
	MsgCancelled     = "Leave request cancelled"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, companyID, actorID, id string, req DecideLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveRequestResponse, error)
	GetMine(ctx context.Context, companyID, actorID string) ([]LeaveRequestResponse, error)
	GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]LeaveRequestResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	ledger balance.Repository
	chain  *ChainBuilder
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ledger balance.Repository,
	chain *ChainBuilder,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, ledger, chain, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	ledger balance.Repository,
	chain *ChainBuilder,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		chain:  chain,
		outbox: outboxRepo,
		logger: l,
	}
}

// ComputeDaysCount returns the day cost of a request. Half-day leave must
// span exactly one day and name a session; multi-day requests count
// inclusive calendar days, weekends included.
func ComputeDaysCount(startDate, endDate time.Time, isHalfDay bool, halfDaySession *string) (decimal.Decimal, error) {
	if startDate.After(endDate) {
		return decimal.Zero, leaveerrors.ErrInvalidDateRange
	}
	if isHalfDay {
		if !startDate.Equal(endDate) {
			return decimal.Zero, leaveerrors.ErrHalfDayMultipleDays
		}
		if halfDaySession == nil || *halfDaySession == "" {
			return decimal.Zero, leaveerrors.ErrHalfDaySessionRequired
		}
		return decimal.NewFromFloat(0.5), nil
	}

	days := int64(endDate.Sub(startDate).Hours()/24) + 1
	return decimal.NewFromInt(days), nil
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Bool("is_half_day", req.IsHalfDay),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	if !balance.IsValidLeaveType(req.LeaveType) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	daysCount, err := ComputeDaysCount(startDate, endDate, req.IsHalfDay, req.HalfDaySession)
	if err != nil {
		s.logger.Warn("submit leave day count validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	approverIDs, err := s.chain.BuildChain(ctx, companyID, actorID)
	if err != nil {
		s.logger.Error("submit leave build chain failed",
			zap.String("employee_id", actorID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(tx.Error))
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, actorID)
	if err != nil {
		s.logger.Error("submit leave employee company check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !belongs {
		return LeaveRequestResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, actorID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", actorID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveOverlap
	}

	// Feasibility check only. The debit happens at final approval; the
	// guard there re-checks, so this can go stale without harm.
	bal, err := balance.GetOrCreate(ctx, s.ledger.WithTx(tx), companyID, actorID, startDate.Year())
	if err != nil {
		s.logger.Error("submit leave load balance failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !balance.CheckSufficient(bal, req.LeaveType, daysCount) {
		s.logger.Warn("submit leave insufficient balance",
			zap.String("employee_id", actorID),
			zap.String("leave_type", req.LeaveType),
			zap.String("days_count", daysCount.String()),
		)
		return LeaveRequestResponse{}, balanceerrors.ErrInsufficientBalance
	}

	l := &LeaveRequest{
		ID:                   uuid.New(),
		CompanyID:            companyUUID,
		EmployeeID:           employeeUUID,
		LeaveType:            req.LeaveType,
		StartDate:            startDate,
		EndDate:              endDate,
		IsHalfDay:            req.IsHalfDay,
		HalfDaySession:       req.HalfDaySession,
		DaysCount:            daysCount,
		Reason:               req.Reason,
		Status:               StatusPending,
		CurrentApprovalLevel: 0,
		TotalApprovalLevels:  len(approverIDs),
	}

	if err := qtx.CreateRequest(ctx, l); err != nil {
		s.logger.Error("submit leave persist request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	approvals := materializeChain(l.ID, approverIDs)
	if err := qtx.CreateApprovals(ctx, approvals); err != nil {
		s.logger.Error("submit leave persist approvals failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.emitSubmitted(ctx, tx, l, approverIDs[0]); err != nil {
		s.logger.Error("submit leave outbox failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_request_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.Int("total_approval_levels", l.TotalApprovalLevels),
	)

	resp := mapToResponse(*l, approvals)
	resp.Message = MsgSubmitted
	return resp, nil
}

// Decide advances the approval chain by exactly one level. The request
// row is locked for the whole read-check-write sequence, so of two racing
// approvers one serializes behind the other and fails the status or
// sequence check. A final-level approval debits the ledger in the same
// transaction as the status flip; if the debit guard rejects, everything
// rolls back and the request stays at its pre-decision level.
func (s *service) Decide(ctx context.Context, companyID, actorID, id string, req DecideLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_request_id", id),
		zap.String("company_id", companyID),
		zap.String("approver_id", actorID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	approverUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequestID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(tx.Error))
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.IsTerminal() {
		s.logger.Warn("decide leave request already terminal",
			zap.String("leave_request_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	approvals, err := qtx.FindApprovals(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	row := findApprovalByApprover(approvals, approverUUID)
	if row == nil {
		s.logger.Warn("decide leave caller not in chain",
			zap.String("leave_request_id", id),
			zap.String("approver_id", actorID),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrNotAuthorized
	}

	currentOrder := l.CurrentApprovalLevel + 1
	switch {
	case row.ApprovalOrder > currentOrder:
		// Later-level approver acting before its turn.
		return LeaveRequestResponse{}, leaveerrors.ErrSequenceViolation
	case row.ApprovalOrder < currentOrder:
		// This approver's level is already decided.
		return LeaveRequestResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	row.Comments = req.Comments
	row.DecidedAt = &now

	var message string
	var eventType string
	var nextApproverID string

	switch req.Decision {
	case DecisionApprove:
		row.Status = ApprovalStatusApproved
		l.CurrentApprovalLevel++

		if l.CurrentApprovalLevel == l.TotalApprovalLevels {
			// Last level: debit and flip are one atomic unit.
			err := balance.Debit(
				ctx,
				s.ledger.WithTx(tx),
				l.EmployeeID.String(),
				l.StartDate.Year(),
				l.LeaveType,
				l.DaysCount,
			)
			if err != nil {
				s.logger.Warn("decide leave final debit failed",
					zap.String("leave_request_id", id),
					zap.String("leave_type", l.LeaveType),
					zap.String("days_count", l.DaysCount.String()),
					zap.Error(err),
				)
				return LeaveRequestResponse{}, err
			}
			l.Status = StatusApproved
			message = MsgFullyApproved
			eventType = events.EventTypeLeaveFullyApproved
		} else {
			message = MsgApproved
			eventType = events.EventTypeLeaveApproved
			nextApproverID = approvals[l.CurrentApprovalLevel].ApproverID.String()
		}
	case DecisionReject:
		row.Status = ApprovalStatusRejected
		l.Status = StatusRejected
		message = MsgRejected
		eventType = events.EventTypeLeaveRejected
	default:
		return LeaveRequestResponse{}, apperror.InvalidField("decision")
	}

	if err := qtx.UpdateApproval(ctx, row); err != nil {
		s.logger.Error("decide leave persist approval failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := qtx.UpdateRequest(ctx, l); err != nil {
		s.logger.Error("decide leave persist request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.emitDecision(ctx, tx, l, actorID, row.ApprovalOrder, nextApproverID, eventType, message); err != nil {
		s.logger.Error("decide leave outbox failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("decide leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("decide leave success",
		zap.String("leave_request_id", id),
		zap.String("approver_id", actorID),
		zap.String("decision", req.Decision),
		zap.String("status", l.Status),
		zap.Int("current_approval_level", l.CurrentApprovalLevel),
	)

	resp := mapToResponse(*l, approvals)
	resp.Message = message
	return resp, nil
}

// Cancel is submitter-only and allowed while the request is still
// pending. Nothing was debited, so the ledger is untouched.
func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(tx.Error))
		return LeaveRequestResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.EmployeeID != actorUUID {
		return LeaveRequestResponse{}, leaveerrors.ErrNotAuthorized
	}
	if l.IsTerminal() {
		return LeaveRequestResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	l.Status = StatusCancelled
	if err := qtx.UpdateRequest(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.emitDecision(ctx, tx, l, actorID, 0, "", events.EventTypeLeaveCancelled, MsgCancelled); err != nil {
		s.logger.Error("cancel leave outbox failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("cancel leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("cancel leave success", zap.String("leave_request_id", id))

	resp := mapToResponse(*l, nil)
	resp.Message = MsgCancelled
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	approvals, err := s.repo.FindApprovals(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l, approvals), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveRequestResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetMine(ctx context.Context, companyID, actorID string) ([]LeaveRequestResponse, error) {
	leaves, err := s.repo.FindByEmployee(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]LeaveRequestResponse, error) {
	leaves, err := s.repo.FindPendingByApprover(ctx, companyID, approverID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) emitSubmitted(ctx context.Context, tx *gorm.DB, l *LeaveRequest, nextApproverID uuid.UUID) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveSubmittedEvent{
		EventType:      events.EventTypeLeaveSubmitted,
		LeaveRequestID: l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		EmployeeID:     l.EmployeeID.String(),
		NextApproverID: nextApproverID.String(),
		LeaveType:      l.LeaveType,
		DaysCount:      l.DaysCount.String(),
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     events.EventTypeLeaveSubmitted,
		Topic:         events.LeaveSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) emitDecision(ctx context.Context, tx *gorm.DB, l *LeaveRequest, approverID string, level int, nextApproverID, eventType, message string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveDecisionEvent{
		EventType:      eventType,
		LeaveRequestID: l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		EmployeeID:     l.EmployeeID.String(),
		ApproverID:     approverID,
		Level:          level,
		NextApproverID: nextApproverID,
		Message:        message,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func findApprovalByApprover(approvals []LeaveApproval, approverID uuid.UUID) *LeaveApproval {
	for i := range approvals {
		if approvals[i].ApproverID == approverID {
			return &approvals[i]
		}
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest, approvals []LeaveApproval) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                   l.ID.String(),
		CompanyID:            l.CompanyID.String(),
		EmployeeID:           l.EmployeeID.String(),
		LeaveType:            l.LeaveType,
		StartDate:            l.StartDate.Format("2006-01-02"),
		EndDate:              l.EndDate.Format("2006-01-02"),
		IsHalfDay:            l.IsHalfDay,
		HalfDaySession:       l.HalfDaySession,
		DaysCount:            l.DaysCount.String(),
		Reason:               l.Reason,
		Status:               l.Status,
		CurrentApprovalLevel: l.CurrentApprovalLevel,
		TotalApprovalLevels:  l.TotalApprovalLevels,
	}

	for _, a := range approvals {
		ar := ApprovalResponse{
			ApproverID:    a.ApproverID.String(),
			ApprovalOrder: a.ApprovalOrder,
			Status:        a.Status,
			Comments:      a.Comments,
		}
		if a.DecidedAt != nil {
			v := a.DecidedAt.Format(time.RFC3339)
			ar.DecidedAt = &v
		}
		resp.Approvals = append(resp.Approvals, ar)
	}

	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l, nil)
	}
	return resp
}
