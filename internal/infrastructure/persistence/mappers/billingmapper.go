package mappers

import (
	"fmt"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
	"github.com/piprapay/ppgateway/internal/shared/mapper"
)

func InvoiceToModel(i *billing.Invoice) *models.InvoiceModel {
	return &models.InvoiceModel{
		ID:        i.ID(),
		ClientID:  i.ClientID(),
		Total:     i.Total(),
		Currency:  i.Currency().String(),
		Status:    i.Status().String(),
		PaidAt:    i.PaidAt(),
		CreatedAt: i.CreatedAt(),
		UpdatedAt: i.UpdatedAt(),
	}
}

func InvoiceToDomain(m *models.InvoiceModel) (*billing.Invoice, error) {
	status := vo.InvoiceStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid invoice status: %s", m.Status)
	}

	return billing.ReconstructInvoice(billing.InvoiceReconstructParams{
		ID:        m.ID,
		ClientID:  m.ClientID,
		Total:     m.Total,
		Currency:  vo.Currency(m.Currency),
		Status:    status,
		PaidAt:    m.PaidAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}), nil
}

func InvoicesToDomain(ms []*models.InvoiceModel) ([]*billing.Invoice, error) {
	return mapper.MapSlicePtrWithID(ms, InvoiceToDomain, func(m *models.InvoiceModel) uint { return m.ID })
}

func LedgerEntriesToDomain(ms []*models.LedgerEntryModel) []*billing.LedgerEntry {
	return mapper.MapSlicePtr(ms, LedgerEntryToDomain)
}

func ClientToModel(c *billing.Client) *models.ClientModel {
	return &models.ClientModel{
		ID:        c.ID(),
		FirstName: c.FirstName(),
		LastName:  c.LastName(),
		Email:     c.Email(),
		Currency:  c.Currency().String(),
		Balance:   c.Balance(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func ClientToDomain(m *models.ClientModel) *billing.Client {
	return billing.ReconstructClient(billing.ClientReconstructParams{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Currency:  vo.Currency(m.Currency),
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
}

func TransactionToModel(t *billing.Transaction) (*models.TransactionModel, error) {
	ipn, err := mapToJSON(t.IPN())
	if err != nil {
		return nil, err
	}

	return &models.TransactionModel{
		ID:          t.ID(),
		Gateway:     t.Gateway(),
		InvoiceID:   t.InvoiceID(),
		IPN:         ipn,
		Status:      t.Status().String(),
		TxnStatus:   t.TxnStatus(),
		TxnID:       t.TxnID(),
		Amount:      t.Amount(),
		Currency:    t.Currency().String(),
		PaymentType: t.PaymentType(),
		ErrorReason: t.ErrorReason(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}, nil
}

func TransactionToDomain(m *models.TransactionModel) (*billing.Transaction, error) {
	status := vo.TransactionStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid transaction status: %s", m.Status)
	}

	ipn, err := jsonToMap(m.IPN)
	if err != nil {
		return nil, err
	}

	return billing.ReconstructTransaction(billing.TransactionReconstructParams{
		ID:          m.ID,
		Gateway:     m.Gateway,
		InvoiceID:   m.InvoiceID,
		IPN:         ipn,
		Status:      status,
		TxnStatus:   m.TxnStatus,
		TxnID:       m.TxnID,
		Amount:      m.Amount,
		Currency:    vo.Currency(m.Currency),
		PaymentType: m.PaymentType,
		ErrorReason: m.ErrorReason,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}), nil
}

func LedgerEntryToModel(e *billing.LedgerEntry) *models.LedgerEntryModel {
	return &models.LedgerEntryModel{
		ID:          e.ID(),
		ClientID:    e.ClientID(),
		Amount:      e.Amount(),
		Currency:    e.Currency().String(),
		Description: e.Description(),
		Type:        e.Type().String(),
		RelID:       e.RelID(),
		CreatedAt:   e.CreatedAt(),
	}
}

func LedgerEntryToDomain(m *models.LedgerEntryModel) *billing.LedgerEntry {
	return billing.ReconstructLedgerEntry(billing.LedgerEntryReconstructParams{
		ID:          m.ID,
		ClientID:    m.ClientID,
		Amount:      m.Amount,
		Currency:    vo.Currency(m.Currency),
		Description: m.Description,
		Type:        vo.LedgerEntryType(m.Type),
		RelID:       m.RelID,
		CreatedAt:   m.CreatedAt,
	})
}
