package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leaveflow/internal/leave"
	leaveerrors "leaveflow/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	submitFn              func(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error)
	decideFn              func(ctx context.Context, companyID, actorID, id string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error)
	cancelFn              func(ctx context.Context, companyID, actorID, id string) (leave.LeaveRequestResponse, error)
	getByIDFn             func(ctx context.Context, companyID, id string) (leave.LeaveRequestResponse, error)
	getAllFn              func(ctx context.Context, companyID string) ([]leave.LeaveRequestResponse, error)
	getMineFn             func(ctx context.Context, companyID, actorID string) ([]leave.LeaveRequestResponse, error)
	getPendingApprovalsFn func(ctx context.Context, companyID, approverID string) ([]leave.LeaveRequestResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if f.submitFn != nil {
		return f.submitFn(ctx, companyID, actorID, req)
	}
	return leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeaveService) Decide(ctx context.Context, companyID, actorID, id string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if f.decideFn != nil {
		return f.decideFn(ctx, companyID, actorID, id, req)
	}
	return leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeaveService) Cancel(ctx context.Context, companyID, actorID, id string) (leave.LeaveRequestResponse, error) {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, companyID, actorID, id)
	}
	return leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeaveService) GetByID(ctx context.Context, companyID, id string) (leave.LeaveRequestResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, companyID, id)
	}
	return leave.LeaveRequestResponse{}, nil
}

func (f *fakeLeaveService) GetAll(ctx context.Context, companyID string) ([]leave.LeaveRequestResponse, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveService) GetMine(ctx context.Context, companyID, actorID string) ([]leave.LeaveRequestResponse, error) {
	if f.getMineFn != nil {
		return f.getMineFn(ctx, companyID, actorID)
	}
	return nil, nil
}

func (f *fakeLeaveService) GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]leave.LeaveRequestResponse, error) {
	if f.getPendingApprovalsFn != nil {
		return f.getPendingApprovalsFn(ctx, companyID, approverID)
	}
	return nil, nil
}

func newLeaveTestRouter(svc leave.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", "11111111-1111-1111-1111-111111111111")
		c.Set("employee_id", "22222222-2222-2222-2222-222222222222")
		c.Next()
	})

	h := leave.NewHandler(svc)
	r.POST("/leaves", h.Submit)
	r.GET("/leaves/me", h.GetMine)
	r.GET("/leaves/pending-approvals", h.GetPendingApprovals)
	r.GET("/leaves", h.GetAll)
	r.GET("/leaves/:id", h.GetByID)
	r.POST("/leaves/:id/decide", h.Decide)
	r.POST("/leaves/:id/cancel", h.Cancel)
	return r
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success returns 201 with created request", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, "11111111-1111-1111-1111-111111111111", companyID)
				assert.Equal(t, "22222222-2222-2222-2222-222222222222", actorID)
				return leave.LeaveRequestResponse{
					ID:      "req-1",
					Status:  leave.StatusPending,
					Message: "Leave request submitted",
				}, nil
			},
		}
		router := newLeaveTestRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"leave_type": "CASUAL",
			"start_date": "2026-03-02",
			"end_date":   "2026-03-04",
			"reason":     "trip",
		})
		req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)

		var resp leave.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "Leave request submitted", resp.Message)
	})

	t.Run("negative invalid payload returns validation error", func(t *testing.T) {
		router := newLeaveTestRouter(&fakeLeaveService{})

		body, _ := json.Marshal(map[string]any{
			"leave_type": "NOT_A_TYPE",
			"start_date": "2026-03-02",
			"end_date":   "2026-03-04",
		})
		req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "Validation failed", env.Error.Message)
	})

	t.Run("negative service error is mapped to envelope", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, companyID, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		router := newLeaveTestRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"leave_type": "CASUAL",
			"start_date": "2026-03-02",
			"end_date":   "2026-03-04",
		})
		req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	t.Run("success passes path id and decision through", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, companyID, actorID, id string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, "req-9", id)
				assert.Equal(t, leave.DecisionApprove, req.Decision)
				return leave.LeaveRequestResponse{ID: id, Message: "Leave request approved"}, nil
			},
		}
		router := newLeaveTestRouter(svc)

		body, _ := json.Marshal(map[string]any{"decision": "approve"})
		req := httptest.NewRequest(http.MethodPost, "/leaves/req-9/decide", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative unknown decision rejected at binding", func(t *testing.T) {
		router := newLeaveTestRouter(&fakeLeaveService{})

		body, _ := json.Marshal(map[string]any{"decision": "defer"})
		req := httptest.NewRequest(http.MethodPost, "/leaves/req-9/decide", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative out-of-turn approver", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, companyID, actorID, id string, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrSequenceViolation
			},
		}
		router := newLeaveTestRouter(svc)

		body, _ := json.Marshal(map[string]any{"decision": "approve"})
		req := httptest.NewRequest(http.MethodPost, "/leaves/req-9/decide", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Previous approvers must approve first", env.Error.Message)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("negative non-submitter gets 403", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, companyID, actorID, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrNotAuthorized
			},
		}
		router := newLeaveTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/leaves/req-9/cancel", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "You are not authorized to act on this leave request", env.Error.Message)
	})
}

func TestLeaveHandler_GetPendingApprovals(t *testing.T) {
	svc := &fakeLeaveService{
		getPendingApprovalsFn: func(ctx context.Context, companyID, approverID string) ([]leave.LeaveRequestResponse, error) {
			assert.Equal(t, "22222222-2222-2222-2222-222222222222", approverID)
			return []leave.LeaveRequestResponse{{ID: "req-1"}, {ID: "req-2"}}, nil
		},
	}
	router := newLeaveTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/leaves/pending-approvals", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []leave.LeaveRequestResponse
	env := decodeEnvelope(t, w)
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp, 2)
}
