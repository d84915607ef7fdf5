package repository

import (
	"context"
	"errors"
	"fmt"

	"payment-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means no payment row matches the lookup key.
	ErrNotFound = errors.New("payment not found")
	// ErrVersionConflict means another writer updated the row between the
	// caller's read and its UpdateWithVersion. The row was not modified.
	ErrVersionConflict = errors.New("payment version conflict")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByGatewayTransactionID(ctx context.Context, gateway, txnID string) (*models.Payment, error)
	FindByUpiTransactionID(ctx context.Context, txnID string) (*models.Payment, error)
	// UpdateWithVersion applies updates only if the row still carries
	// expectedVersion, bumping version by one in the same statement. It is
	// the single serialization point for webhook mutations.
	UpdateWithVersion(ctx context.Context, id uuid.UUID, expectedVersion int64, updates map[string]interface{}) error
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByGatewayTransactionID(ctx context.Context, gateway, txnID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("gateway = ? AND gateway_transaction_id = ?", gateway, txnID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByUpiTransactionID(ctx context.Context, txnID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("upi_transaction_id = ?", txnID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) UpdateWithVersion(ctx context.Context, id uuid.UUID, expectedVersion int64, updates map[string]interface{}) error {
	updates["version"] = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update payment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
