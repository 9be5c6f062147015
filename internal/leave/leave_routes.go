package leave

import (
	"leaveflow/internal/middleware"
	"leaveflow/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Idempotency(rdb), handler.Submit)
		leaves.GET("/me", handler.GetMine)
		leaves.GET("/pending-approvals", handler.GetPendingApprovals)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("/:id/decide", middleware.Idempotency(rdb), handler.Decide)
		leaves.POST("/:id/cancel", handler.Cancel)
	}
}
