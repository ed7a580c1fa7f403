package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TransactionModel is one inbound gateway call. IPN keeps the raw
// notification as received.
type TransactionModel struct {
	ID          uint            `gorm:"primaryKey"`
	Gateway     string          `gorm:"size:50;not null"`
	InvoiceID   *uint           `gorm:"index"`
	IPN         datatypes.JSON  `gorm:"column:ipn"`
	Status      string          `gorm:"size:20;not null;index"`
	TxnStatus   string          `gorm:"size:50"`
	TxnID       string          `gorm:"size:128"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency    string          `gorm:"size:3"`
	PaymentType string          `gorm:"size:50"`
	ErrorReason string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}
