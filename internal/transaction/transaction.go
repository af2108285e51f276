package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Status is derived from the two lifecycle flags. The machine is strictly
// linear: Pending -> Verified -> Submitted, with Submitted terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusSubmitted Status = "submitted"
)

var (
	ErrNotFound            = errors.New("transaction not found")
	ErrNotVerified         = errors.New("transaction not verified")
	ErrAlreadySubmitted    = errors.New("transaction already submitted")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Transaction is a customer's cross-border payment request. It is never
// physically deleted; verification and settlement submission only ever move
// it forward.
type Transaction struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	CustomerName     string
	AccountNumber    string
	Amount           decimal.Decimal
	Currency         string
	RecipientName    string
	RecipientAccount string
	BankName         string
	SwiftCode        string
	Verified         bool
	SubmittedToSwift bool
	CreatedAt        time.Time
}

func (t *Transaction) Status() Status {
	switch {
	case t.SubmittedToSwift:
		return StatusSubmitted
	case t.Verified:
		return StatusVerified
	default:
		return StatusPending
	}
}

// EligibleForSubmission reports whether the transaction may be forwarded to
// the settlement network: verified but not yet submitted.
func (t *Transaction) EligibleForSubmission() bool {
	return t.Verified && !t.SubmittedToSwift
}

// SupportedCurrencies is the fixed set of currencies the bank settles in.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY"}

var supportedCurrencySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SupportedCurrencies))
	for _, code := range SupportedCurrencies {
		set[code] = struct{}{}
	}

	return set
}()

// SupportedCurrency reports whether code is a well-formed ISO 4217 code in
// the supported set.
func SupportedCurrency(code string) bool {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return false
	}

	_, ok := supportedCurrencySet[unit.String()]

	return ok
}
