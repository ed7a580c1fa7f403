package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/piprapay/ppgateway/internal/domain/payment"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/mappers"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/errors"
)

type PaymentReceiptRepository struct {
	db *gorm.DB
}

func NewPaymentReceiptRepository(db *gorm.DB) *PaymentReceiptRepository {
	return &PaymentReceiptRepository{db: db}
}

// Claim inserts the receipt unless one with the same pp_id exists. It
// reports whether this call inserted it.
func (r *PaymentReceiptRepository) Claim(ctx context.Context, receipt *payment.Receipt) (bool, error) {
	model, err := mappers.ReceiptToModel(receipt)
	if err != nil {
		return false, err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pp_id"}},
			DoNothing: true,
		}).
		Create(model)

	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim payment receipt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	receipt.SetID(model.ID)
	return true, nil
}

func (r *PaymentReceiptRepository) GetByPPID(ctx context.Context, ppID string) (*payment.Receipt, error) {
	var model models.PaymentReceiptModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("pp_id = ?", ppID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("payment receipt not found", ppID)
		}
		return nil, fmt.Errorf("failed to get payment receipt: %w", err)
	}

	return mappers.ReceiptToDomain(&model)
}
