package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	balanceerrors "leaveflow/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Reads are cached briefly; a just-debited balance may lag by at most the TTL.
const cacheTTL = 30 * time.Second

func cacheKey(companyID, employeeID string, year int) string {
	return fmt.Sprintf("balance:%s:%s:%d", companyID, employeeID, year)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID, employeeID string, year int) (BalanceResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

// Get returns the ledger row for (employee, year), creating it with
// defaults on first read. Concurrent cache misses for the same key are
// collapsed through singleflight.
func (s *service) Get(ctx context.Context, companyID, employeeID string, year int) (BalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	if year < 2000 || year > 2100 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}

	key := cacheKey(companyID, employeeID, year)
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached BalanceResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.load(ctx, companyID, employeeID, year)
	})
	if err != nil {
		return BalanceResponse{}, err
	}
	resp := v.(BalanceResponse)

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
				s.logger.Warn("cache balance failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return resp, nil
}

func (s *service) load(ctx context.Context, companyID, employeeID string, year int) (BalanceResponse, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("get balance begin tx failed", zap.Error(tx.Error))
		return BalanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	b, err := GetOrCreate(ctx, qtx, companyID, employeeID, year)
	if err != nil {
		s.logger.Error("get or create balance failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("get balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	return mapToResponse(*b), nil
}
