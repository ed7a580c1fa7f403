package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/mappers"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/biztime"
	"github.com/piprapay/ppgateway/internal/shared/db"
	"github.com/piprapay/ppgateway/internal/shared/errors"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *billing.Client) error {
	model := mappers.ClientToModel(client)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	client.SetID(model.ID)
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint) (*billing.Client, error) {
	var model models.ClientModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("client not found", fmt.Sprintf("client %d", id))
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return mappers.ClientToDomain(&model), nil
}

func (r *ClientRepository) AdjustBalance(ctx context.Context, clientID uint, delta decimal.Decimal) error {
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Model(&models.ClientModel{}).Where("id = ?", clientID)
	if delta.IsNegative() {
		query = query.Where("balance >= ?", delta.Neg())
	}

	result := query.Updates(map[string]interface{}{
		"balance":    gorm.Expr("balance + ?", delta),
		"updated_at": biztime.NowUTC(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to adjust client balance: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.ClientModel{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if count == 0 {
		return errors.NewNotFoundError("client not found", fmt.Sprintf("client %d", clientID))
	}
	return errors.NewInsufficientCreditError("insufficient credit balance", fmt.Sprintf("client %d", clientID))
}
