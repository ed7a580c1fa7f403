package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/piprapay/ppgateway/internal/domain/billing/valueobjects"
	"github.com/piprapay/ppgateway/internal/shared/biztime"
)

// Client is the billing account an invoice belongs to. Balance is the
// client's available credit.
type Client struct {
	id        uint
	firstName string
	lastName  string
	email     string
	currency  vo.Currency
	balance   decimal.Decimal

	createdAt time.Time
	updatedAt time.Time
}

func NewClient(firstName, lastName, email string, currency vo.Currency) (*Client, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("client email is required")
	}

	now := biztime.NowUTC()
	return &Client{
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		currency:  currency,
		balance:   decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type ClientReconstructParams struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Currency  vo.Currency
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ReconstructClient(p ClientReconstructParams) *Client {
	return &Client{
		id:        p.ID,
		firstName: p.FirstName,
		lastName:  p.LastName,
		email:     p.Email,
		currency:  p.Currency,
		balance:   p.Balance,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

// FullName is "first last", trimmed when either part is missing.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.firstName + " " + c.lastName)
}

// AddFunds credits the client's balance.
func (c *Client) AddFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("funds amount must be positive, got %s", amount)
	}
	c.balance = c.balance.Add(amount)
	c.updatedAt = biztime.NowUTC()
	return nil
}

// CanCover reports whether the available credit covers amount.
func (c *Client) CanCover(amount decimal.Decimal) bool {
	return c.balance.GreaterThanOrEqual(amount)
}

// Spend debits the client's balance.
func (c *Client) Spend(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("spend amount must be positive, got %s", amount)
	}
	if !c.CanCover(amount) {
		return fmt.Errorf("insufficient credit: balance %s, required %s", c.balance, amount)
	}
	c.balance = c.balance.Sub(amount)
	c.updatedAt = biztime.NowUTC()
	return nil
}

func (c *Client) SetID(id uint) {
	c.id = id
}

func (c *Client) ID() uint                 { return c.id }
func (c *Client) FirstName() string        { return c.firstName }
func (c *Client) LastName() string         { return c.lastName }
func (c *Client) Email() string            { return c.email }
func (c *Client) Currency() vo.Currency    { return c.currency }
func (c *Client) Balance() decimal.Decimal { return c.balance }
func (c *Client) CreatedAt() time.Time     { return c.createdAt }
func (c *Client) UpdatedAt() time.Time     { return c.updatedAt }
