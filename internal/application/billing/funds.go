// Package billing applies money to client accounts: crediting funds and
// settling invoices from available credit.
package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/piprapay/ppgateway/internal/domain/billing"
	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/logger"
)

// FundsService keeps the client's balance and ledger in step. Callers that
// need several calls to succeed together run them inside one db.Runner unit.
type FundsService struct {
	clientRepo  billing.ClientRepository
	invoiceRepo billing.InvoiceRepository
	ledgerRepo  billing.LedgerRepository
	logger      logger.Interface
}

func NewFundsService(
	clientRepo billing.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	ledgerRepo billing.LedgerRepository,
	logger logger.Interface,
) *FundsService {
	return &FundsService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

// Credit describes a balance top-up funded by a gateway transaction.
type Credit struct {
	Amount      decimal.Decimal
	Currency    vo.Currency
	Description string
	// RelID is the transaction that funded the credit.
	RelID uint
}

// AddFunds credits client and records a transaction-type ledger entry.
func (s *FundsService) AddFunds(ctx context.Context, client *billing.Client, credit Credit) error {
	entry, err := billing.NewLedgerEntry(client.ID(), credit.Amount, credit.Currency, credit.Description, vo.LedgerEntryTransaction, credit.RelID)
	if err != nil {
		return fmt.Errorf("failed to build ledger entry: %w", err)
	}

	if err := client.AddFunds(credit.Amount); err != nil {
		return err
	}

	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return err
	}

	if err := s.clientRepo.AdjustBalance(ctx, client.ID(), credit.Amount); err != nil {
		return err
	}

	s.logger.Infow("client funds added",
		"client_id", client.ID(),
		"amount", credit.Amount.String(),
		"rel_id", credit.RelID,
	)

	return nil
}

// PayInvoiceWithCredits settles invoice from client's credit when the credit
// covers the full total. It reports whether the invoice was paid by this call.
func (s *FundsService) PayInvoiceWithCredits(ctx context.Context, client *billing.Client, invoice *billing.Invoice) (bool, error) {
	if invoice.ClientID() != client.ID() {
		return false, fmt.Errorf("invoice %d does not belong to client %d", invoice.ID(), client.ID())
	}
	if !invoice.IsPayable() {
		return false, nil
	}
	if !client.CanCover(invoice.Total()) {
		s.logger.Debugw("credit does not cover invoice",
			"invoice_id", invoice.ID(),
			"balance", client.Balance().String(),
			"total", invoice.Total().String(),
		)
		return false, nil
	}

	if err := invoice.MarkAsPaid(); err != nil {
		return false, err
	}

	paid, err := s.invoiceRepo.MarkPaid(ctx, invoice)
	if err != nil {
		return false, err
	}
	if !paid {
		// settled concurrently by someone else
		return false, nil
	}

	if err := client.Spend(invoice.Total()); err != nil {
		return false, err
	}

	entry, err := billing.NewLedgerEntry(
		client.ID(),
		invoice.Total().Neg(),
		invoice.Currency(),
		fmt.Sprintf("Invoice #%d payment", invoice.ID()),
		vo.LedgerEntryInvoice,
		invoice.ID(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to build ledger entry: %w", err)
	}

	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return false, err
	}

	if err := s.clientRepo.AdjustBalance(ctx, client.ID(), invoice.Total().Neg()); err != nil {
		return false, err
	}

	s.logger.Infow("invoice paid with credits",
		"invoice_id", invoice.ID(),
		"client_id", client.ID(),
		"total", invoice.Total().String(),
	)

	return true, nil
}

// BatchPayWithCredits pays the client's unpaid invoices oldest first while
// the remaining credit covers them. It returns the IDs it paid.
func (s *FundsService) BatchPayWithCredits(ctx context.Context, client *billing.Client) ([]uint, error) {
	invoices, err := s.invoiceRepo.ListPayableByClient(ctx, client.ID())
	if err != nil {
		return nil, err
	}

	var paidIDs []uint
	for _, inv := range invoices {
		paid, err := s.PayInvoiceWithCredits(ctx, client, inv)
		if err != nil {
			return paidIDs, fmt.Errorf("failed to pay invoice %d: %w", inv.ID(), err)
		}
		if paid {
			paidIDs = append(paidIDs, inv.ID())
		}
	}

	return paidIDs, nil
}
