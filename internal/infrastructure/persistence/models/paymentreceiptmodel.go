package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentReceiptModel marks a provider payment as applied. The unique pp_id
// index is what makes reconciliation idempotent.
type PaymentReceiptModel struct {
	ID            uint            `gorm:"primaryKey"`
	PPID          string          `gorm:"column:pp_id;size:128;not null;uniqueIndex"`
	Gateway       string          `gorm:"size:50;not null"`
	TransactionID uint            `gorm:"index;not null"`
	InvoiceID     uint            `gorm:"index;not null"`
	ProviderTxnID string          `gorm:"size:128"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"size:3"`
	PaymentMethod string          `gorm:"size:50"`
	Verification  datatypes.JSON
	CreatedAt     time.Time
}

func (PaymentReceiptModel) TableName() string {
	return "payment_receipts"
}
