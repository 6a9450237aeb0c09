package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	o := &entity.Order{
		OrderNumber: "6f1c2c1e-4d59-4a5e-9a57-1f0b7c1f8e2a",
		OrderDate:   time.Now(),
		Status:      entity.OrderPending,
		TotalAmount: decimal.RequireFromString("8.75"),
		CustomerID:  1,
	}
	require.NoError(t, repo.CreateOrder(gormDB, o))
	assert.Equal(t, uint(7), o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatusGuard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.UpdateStatusGuard(gormDB, 7, entity.OrderPending, entity.OrderProcessing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatusGuard_LostRace(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := repo.UpdateStatusGuard(gormDB, 7, entity.OrderPending, entity.OrderProcessing)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderRepository_FindByNumber_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	customer := uint(3)
	o, err := repo.FindByNumber(context.Background(), "missing", &customer)
	assert.Nil(t, o)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
