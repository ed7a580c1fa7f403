package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryModel struct {
	ID          uint            `gorm:"primaryKey"`
	ClientID    uint            `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Description string          `gorm:"size:255;not null"`
	Type        string          `gorm:"size:20;not null"`
	RelID       uint            `gorm:"index;not null"`
	CreatedAt   time.Time
}

func (LedgerEntryModel) TableName() string {
	return "client_ledger"
}
