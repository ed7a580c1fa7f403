package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClientModel struct {
	ID        uint            `gorm:"primaryKey"`
	FirstName string          `gorm:"size:100;not null"`
	LastName  string          `gorm:"size:100;not null"`
	Email     string          `gorm:"size:255;not null;index"`
	Currency  string          `gorm:"size:3;not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClientModel) TableName() string {
	return "clients"
}
