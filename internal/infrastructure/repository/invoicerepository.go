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

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := mappers.InvoiceToModel(invoice)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	invoice.SetID(model.ID)
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uint) (*billing.Invoice, error) {
	var model models.InvoiceModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("invoice not found", fmt.Sprintf("invoice %d", id))
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return mappers.InvoiceToDomain(&model)
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, invoice *billing.Invoice) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND status = ?", invoice.ID(), vo.InvoiceStatusUnpaid).
		Updates(map[string]interface{}{
			"status":     invoice.Status().String(),
			"paid_at":    invoice.PaidAt(),
			"updated_at": invoice.UpdatedAt(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to mark invoice paid: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *InvoiceRepository) ListPayableByClient(ctx context.Context, clientID uint) ([]*billing.Invoice, error) {
	var rows []*models.InvoiceModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("client_id = ? AND status = ?", clientID, vo.InvoiceStatusUnpaid).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list unpaid invoices: %w", err)
	}

	return mappers.InvoicesToDomain(rows)
}
