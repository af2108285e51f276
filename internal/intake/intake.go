// Package intake is the customer's two-stage payment wizard: amount and
// currency first, then the recipient's banking details. Validation is
// field-scoped and non-fatal; a failure blocks advancing the current stage
// and clears as soon as the field is edited.
package intake

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/novabank/payportal/internal/apiclient"
	"github.com/novabank/payportal/internal/transaction"
)

type Stage int

const (
	StageAmount Stage = iota
	StageRecipient
)

// Field names, shared between validation results and the form's inputs.
const (
	FieldAmount           = "amount"
	FieldCurrency         = "currency"
	FieldRecipientName    = "recipientName"
	FieldRecipientAccount = "recipientAccount"
	FieldSwiftCode        = "swiftCode"
	FieldBankName         = "bankName"
)

// swiftPattern is the canonical SWIFT/BIC format: 4-letter institution,
// 2-letter country, 2 alphanumeric location, optional 3 alphanumeric branch.
var swiftPattern = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)

func ValidSwiftCode(code string) bool {
	return swiftPattern.MatchString(code)
}

// Form carries the wizard's fields across stages. Going back never discards
// anything; fields survive until final submission.
type Form struct {
	Amount           string
	Currency         string
	RecipientName    string
	RecipientAccount string
	SwiftCode        string
	BankName         string

	stage Stage
	errs  map[string]string
}

func NewForm() *Form {
	return &Form{
		Currency: "USD",
		errs:     map[string]string{},
	}
}

func (f *Form) Stage() Stage {
	return f.stage
}

// SetField records an edit and reactively clears the field's error.
func (f *Form) SetField(field, value string) {
	switch field {
	case FieldAmount:
		f.Amount = value
	case FieldCurrency:
		f.Currency = value
	case FieldRecipientName:
		f.RecipientName = value
	case FieldRecipientAccount:
		f.RecipientAccount = value
	case FieldSwiftCode:
		f.SwiftCode = value
	case FieldBankName:
		f.BankName = value
	}

	delete(f.errs, field)
}

// FieldError returns the current message for a field, if any.
func (f *Form) FieldError(field string) string {
	return f.errs[field]
}

func (f *Form) Errors() map[string]string {
	return f.errs
}

// Next validates the current stage and advances only when it passes.
func (f *Form) Next() bool {
	switch f.stage {
	case StageAmount:
		if !f.validateAmountStage() {
			return false
		}

		f.stage = StageRecipient

		return true
	default:
		return false
	}
}

// Back returns to the amount stage, keeping every field as entered.
func (f *Form) Back() {
	if f.stage == StageRecipient {
		f.stage = StageAmount
	}
}

func (f *Form) validateAmountStage() bool {
	ok := true

	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))

	switch {
	case strings.TrimSpace(f.Amount) == "":
		f.errs[FieldAmount] = "amount is required"
		ok = false
	case err != nil:
		f.errs[FieldAmount] = "amount must be a number"
		ok = false
	case !amount.IsPositive():
		f.errs[FieldAmount] = "amount must be greater than 0"
		ok = false
	}

	if !transaction.SupportedCurrency(f.Currency) {
		f.errs[FieldCurrency] = "currency is not supported"
		ok = false
	}

	return ok
}

func (f *Form) validateRecipientStage() bool {
	ok := true

	if strings.TrimSpace(f.RecipientName) == "" {
		f.errs[FieldRecipientName] = "recipient name is required"
		ok = false
	}

	if strings.TrimSpace(f.RecipientAccount) == "" {
		f.errs[FieldRecipientAccount] = "account number is required"
		ok = false
	}

	switch {
	case strings.TrimSpace(f.SwiftCode) == "":
		f.errs[FieldSwiftCode] = "SWIFT code is required"
		ok = false
	case !ValidSwiftCode(f.SwiftCode):
		f.errs[FieldSwiftCode] = "invalid SWIFT code format"
		ok = false
	}

	if strings.TrimSpace(f.BankName) == "" {
		f.errs[FieldBankName] = "bank name is required"
		ok = false
	}

	return ok
}

// Draft assembles the validated payment request. Both stages are re-checked
// unconditionally so Errors carries every failing field at once; it only
// succeeds when the whole wizard is valid.
func (f *Form) Draft() (apiclient.CreateTransactionParams, bool) {
	amountOK := f.validateAmountStage()
	recipientOK := f.validateRecipientStage()

	if !amountOK || !recipientOK {
		return apiclient.CreateTransactionParams{}, false
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(f.Amount))

	return apiclient.CreateTransactionParams{
		Amount:           amount,
		Currency:         f.Currency,
		RecipientName:    strings.TrimSpace(f.RecipientName),
		RecipientAccount: strings.TrimSpace(f.RecipientAccount),
		BankName:         strings.TrimSpace(f.BankName),
		SwiftCode:        strings.TrimSpace(f.SwiftCode),
	}, true
}
