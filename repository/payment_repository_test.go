package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"payment-service/models"
	"payment-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func paymentRows(id uuid.UUID, gateway, txnID, status string, version int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "order_id", "gateway", "gateway_transaction_id", "amount_minor",
		"currency", "status", "version", "created_at", "updated_at",
	}).AddRow(
		id.String(), uuid.New().String(), gateway, txnID, int64(49900),
		"INR", status, version, now, now,
	)
}

func TestFindByGatewayTransactionID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WithArgs(models.GatewayRazorpay, "pay_123", 1).
		WillReturnRows(paymentRows(id, models.GatewayRazorpay, "pay_123", models.StatusPending, 1))

	p, err := repo.FindByGatewayTransactionID(context.Background(), models.GatewayRazorpay, "pay_123")
	assert.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, int64(1), p.Version)
}

func TestFindByGatewayTransactionID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WithArgs(models.GatewayRazorpay, "pay_missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	p, err := repo.FindByGatewayTransactionID(context.Background(), models.GatewayRazorpay, "pay_missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, p)
}

func TestFindByUpiTransactionID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WithArgs("UPI-REF-9", 1).
		WillReturnRows(paymentRows(id, models.GatewayUpi, "ignored", models.StatusPending, 1))

	p, err := repo.FindByUpiTransactionID(context.Background(), "UPI-REF-9")
	assert.NoError(t, err)
	assert.Equal(t, id, p.ID)
}

func TestUpdateWithVersion_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateWithVersion(context.Background(), id, 1, map[string]interface{}{
		"status": models.StatusCompleted,
	})
	assert.NoError(t, err)
}

func TestUpdateWithVersion_Conflict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateWithVersion(context.Background(), id, 1, map[string]interface{}{
		"status": models.StatusCompleted,
	})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}
