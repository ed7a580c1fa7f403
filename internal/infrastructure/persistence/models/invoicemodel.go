package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceModel struct {
	ID        uint            `gorm:"primaryKey"`
	ClientID  uint            `gorm:"index:idx_invoices_client_status;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency  string          `gorm:"size:3;not null"`
	Status    string          `gorm:"size:20;not null;index:idx_invoices_client_status"`
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (InvoiceModel) TableName() string {
	return "invoices"
}
