package leaveerrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrHalfDaySessionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Half-day session is required",
		http.StatusBadRequest,
	)
	ErrHalfDayMultipleDays = apperror.New(
		apperror.CodeInvalidInput,
		"Half-day leave can only be applied for a single day",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)

	// The exact wording of the next three is depended upon by callers.
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"Leave request has already been processed",
		http.StatusBadRequest,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"You are not authorized to act on this leave request",
		http.StatusForbidden,
	)
	ErrSequenceViolation = apperror.New(
		apperror.CodeSequenceViolation,
		"Previous approvers must approve first",
		http.StatusBadRequest,
	)

	// Configuration defect: the org hierarchy cannot fill a chain level.
	ErrNoApproverAvailable = apperror.New(
		apperror.CodeInternalError,
		"no approver available for leave request",
		http.StatusInternalServerError,
	)
)
