package notification

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
	"leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetMine(c *gin.Context) {
	companyID := c.GetString("company_id")
	recipientID := c.GetString("employee_id")
	unreadOnly := c.Query("unread") == "true"

	resp, err := h.service.GetForRecipient(c.Request.Context(), companyID, recipientID, unreadOnly)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	companyID := c.GetString("company_id")
	recipientID := c.GetString("employee_id")

	if err := h.service.MarkRead(c.Request.Context(), companyID, recipientID, c.Param("id")); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	companyID := c.GetString("company_id")
	recipientID := c.GetString("employee_id")

	count, err := h.service.CountUnread(c.Request.Context(), companyID, recipientID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread": count}, nil)
}
