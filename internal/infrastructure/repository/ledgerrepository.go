package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/mappers"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/db"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, entry *billing.LedgerEntry) error {
	model := mappers.LedgerEntryToModel(entry)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	entry.SetID(model.ID)
	return nil
}

func (r *LedgerRepository) ListByClient(ctx context.Context, clientID uint) ([]*billing.LedgerEntry, error) {
	var rows []*models.LedgerEntryModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("client_id = ?", clientID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return mappers.LedgerEntriesToDomain(rows), nil
}
