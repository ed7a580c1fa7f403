package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/mappers"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/errors"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *billing.Transaction) error {
	model, err := mappers.TransactionToModel(txn)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	txn.SetID(model.ID)
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint) (*billing.Transaction, error) {
	var model models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("transaction not found", fmt.Sprintf("transaction %d", id))
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return mappers.TransactionToDomain(&model)
}

func (r *TransactionRepository) CompleteIfPending(ctx context.Context, txn *billing.Transaction) (bool, error) {
	model, err := mappers.TransactionToModel(txn)
	if err != nil {
		return false, err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("id = ? AND status <> ?", model.ID, vo.TransactionStatusComplete).
		Updates(map[string]interface{}{
			"invoice_id":   model.InvoiceID,
			"status":       model.Status,
			"txn_status":   model.TxnStatus,
			"txn_id":       model.TxnID,
			"amount":       model.Amount,
			"currency":     model.Currency,
			"payment_type": model.PaymentType,
			"error_reason": model.ErrorReason,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to complete transaction: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, txn *billing.Transaction) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("id = ? AND status <> ?", txn.ID(), vo.TransactionStatusComplete).
		Updates(map[string]interface{}{
			"status":       txn.Status().String(),
			"error_reason": txn.ErrorReason(),
			"updated_at":   txn.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}

	return nil
}
