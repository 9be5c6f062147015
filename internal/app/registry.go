package app

import (
	"os"
	"path/filepath"
	"strconv"

	"leaveflow/internal/auth"
	"leaveflow/internal/balance"
	"leaveflow/internal/employee"
	"leaveflow/internal/leave"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/middleware"
	"leaveflow/internal/notification"
	"leaveflow/internal/rbac"
	"leaveflow/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("configs", "rbac_model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	balanceService := balance.NewService(gormDB, balanceRepo, rdb)
	employeeService := employee.NewService(gormDB, employeeRepo, balanceRepo, rdb)
	notificationService := notification.NewService(notificationRepo)

	chainBuilder := leave.NewChainBuilder(employee.NewResolver(employeeRepo), approvalLevels())
	leaveService := leave.NewServiceWithOutbox(gormDB, leaveRepo, balanceRepo, chainBuilder, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	balanceHandler := balance.NewHandler(balanceService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}

// approvalLevels reads APPROVAL_LEVELS, falling back to the default
// two-level chain when unset or invalid.
func approvalLevels() int {
	levels, err := strconv.Atoi(os.Getenv("APPROVAL_LEVELS"))
	if err != nil || levels < 1 {
		return leave.DefaultApprovalLevels
	}
	return levels
}
