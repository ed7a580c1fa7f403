package mappers

import (
	"github.com/piprapay/ppgateway/internal/domain/payment"
	"github.com/piprapay/ppgateway/internal/infrastructure/persistence/models"
)

func ReceiptToModel(r *payment.Receipt) (*models.PaymentReceiptModel, error) {
	verification, err := mapToJSON(r.Verification())
	if err != nil {
		return nil, err
	}

	return &models.PaymentReceiptModel{
		ID:            r.ID(),
		PPID:          r.PPID(),
		Gateway:       r.Gateway(),
		TransactionID: r.TransactionID(),
		InvoiceID:     r.InvoiceID(),
		ProviderTxnID: r.ProviderTxnID(),
		Amount:        r.Amount(),
		Currency:      r.Currency(),
		PaymentMethod: r.PaymentMethod(),
		Verification:  verification,
		CreatedAt:     r.CreatedAt(),
	}, nil
}

func ReceiptToDomain(m *models.PaymentReceiptModel) (*payment.Receipt, error) {
	verification, err := jsonToMap(m.Verification)
	if err != nil {
		return nil, err
	}

	return payment.ReconstructReceipt(payment.ReceiptReconstructParams{
		ReceiptParams: payment.ReceiptParams{
			PPID:          m.PPID,
			Gateway:       m.Gateway,
			TransactionID: m.TransactionID,
			InvoiceID:     m.InvoiceID,
			ProviderTxnID: m.ProviderTxnID,
			Amount:        m.Amount,
			Currency:      m.Currency,
			PaymentMethod: m.PaymentMethod,
			Verification:  verification,
		},
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
	}), nil
}
