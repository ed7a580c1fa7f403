// Package models holds the gorm row types of the billing store.
package models

// All lists every model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&ClientModel{},
		&InvoiceModel{},
		&TransactionModel{},
		&LedgerEntryModel{},
		&PaymentReceiptModel{},
	}
}
