package payment

import "context"

type ReceiptRepository interface {
	// Claim inserts the receipt unless one already exists for its pp_id.
	// It reports whether this call created it.
	Claim(ctx context.Context, receipt *Receipt) (bool, error)
	GetByPPID(ctx context.Context, ppID string) (*Receipt, error)
}
