package balance_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"leaveflow/internal/balance"
	balanceerrors "leaveflow/internal/balance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return gdb, mock
}

func TestBalanceService_Get(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()
	key := fmt.Sprintf("balance:%s:%s:%d", companyID, employeeID, 2026)

	t.Run("cache miss loads and caches", func(t *testing.T) {
		gdb, sqlMock := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()

		repo := &fakeBalanceRepository{
			findByEmployeeAndYearFn: func(ctx context.Context, cID, eID string, year int) (*balance.LeaveBalance, error) {
				return balance.NewWithDefaults(companyID, employeeID, year), nil
			},
		}
		svc := balance.NewService(gdb, repo, rdb)

		expected := balance.BalanceResponse{
			EmployeeID:         employeeID.String(),
			Year:               2026,
			SickLeave:          "12",
			CasualLeave:        "12",
			EarnedLeave:        "15",
			CompOff:            "2",
			PaternityMaternity: "0",
			BirthdayLeave:      "1",
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		redisMock.ExpectGet(key).RedisNil()
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		redisMock.ExpectSet(key, payload, 30*time.Second).SetVal("OK")

		resp, err := svc.Get(context.Background(), companyID.String(), employeeID.String(), 2026)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, redisMock.ExpectationsWereMet())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		gdb, sqlMock := newGormMock(t)
		rdb, redisMock := redismock.NewClientMock()

		repo := &fakeBalanceRepository{
			findByEmployeeAndYearFn: func(ctx context.Context, cID, eID string, year int) (*balance.LeaveBalance, error) {
				t.Fatal("database must not be hit on cache hit")
				return nil, nil
			},
		}
		svc := balance.NewService(gdb, repo, rdb)

		cached := balance.BalanceResponse{EmployeeID: employeeID.String(), Year: 2026, CasualLeave: "7.5"}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		redisMock.ExpectGet(key).SetVal(string(payload))

		resp, err := svc.Get(context.Background(), companyID.String(), employeeID.String(), 2026)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, redisMock.ExpectationsWereMet())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		rdb, _ := redismock.NewClientMock()
		svc := balance.NewService(gdb, &fakeBalanceRepository{}, rdb)

		_, err := svc.Get(context.Background(), companyID.String(), "nope", 2026)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative out-of-range year", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		rdb, _ := redismock.NewClientMock()
		svc := balance.NewService(gdb, &fakeBalanceRepository{}, rdb)

		_, err := svc.Get(context.Background(), companyID.String(), employeeID.String(), 1999)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}
