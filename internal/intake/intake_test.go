package intake_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novabank/payportal/internal/intake"
)

func TestValidSwiftCode(t *testing.T) {
	type testCase struct {
		code string
		want bool
	}

	tests := []testCase{
		{"ABCDEF12", true},     // 8 chars, no branch
		{"ABCDEF12XYZ", true},  // 11 chars, with branch
		{"ABCDE123", false},    // digit where a letter is required
		{"abcdef12", false},    // lowercase
		{"ABCDEF1", false},     // too short
		{"ABCDEF12XY", false},  // branch must be exactly 3
		{"ABCDEF12XYZ1", false}, // too long
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, intake.ValidSwiftCode(tt.code))
		})
	}
}

func TestForm_AmountStage(t *testing.T) {
	type testCase struct {
		name      string
		amount    string
		currency  string
		wantField string
	}

	tests := []testCase{
		{name: "Valid", amount: "100.00", currency: "USD"},
		{name: "Empty", amount: "", currency: "USD", wantField: intake.FieldAmount},
		{name: "NotANumber", amount: "ten", currency: "USD", wantField: intake.FieldAmount},
		{name: "Zero", amount: "0", currency: "USD", wantField: intake.FieldAmount},
		{name: "Negative", amount: "-1.50", currency: "USD", wantField: intake.FieldAmount},
		{name: "BadCurrency", amount: "100.00", currency: "ZZZ", wantField: intake.FieldCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := intake.NewForm()
			f.SetField(intake.FieldAmount, tt.amount)
			f.SetField(intake.FieldCurrency, tt.currency)

			advanced := f.Next()
			if tt.wantField == "" {
				assert.True(t, advanced)
				assert.Equal(t, intake.StageRecipient, f.Stage())

				return
			}

			assert.False(t, advanced)
			assert.Equal(t, intake.StageAmount, f.Stage())
			assert.NotEmpty(t, f.FieldError(tt.wantField))
		})
	}
}

func TestForm_FieldErrorClearsOnEdit(t *testing.T) {
	f := intake.NewForm()
	f.SetField(intake.FieldAmount, "-5")

	require.False(t, f.Next())
	require.NotEmpty(t, f.FieldError(intake.FieldAmount))

	f.SetField(intake.FieldAmount, "5")
	assert.Empty(t, f.FieldError(intake.FieldAmount))
}

func TestForm_BackPreservesFields(t *testing.T) {
	f := intake.NewForm()
	f.SetField(intake.FieldAmount, "250.75")
	f.SetField(intake.FieldCurrency, "EUR")
	require.True(t, f.Next())

	f.SetField(intake.FieldRecipientName, "J. Watson")
	f.SetField(intake.FieldRecipientAccount, "987654321")
	f.SetField(intake.FieldSwiftCode, "ABCDEF12")
	f.SetField(intake.FieldBankName, "First International")

	f.Back()
	assert.Equal(t, intake.StageAmount, f.Stage())
	assert.Equal(t, "250.75", f.Amount)
	assert.Equal(t, "J. Watson", f.RecipientName)
	assert.Equal(t, "ABCDEF12", f.SwiftCode)

	require.True(t, f.Next())
	assert.Equal(t, intake.StageRecipient, f.Stage())
}

func TestForm_Draft(t *testing.T) {
	f := intake.NewForm()
	f.SetField(intake.FieldAmount, "100.00")
	f.SetField(intake.FieldCurrency, "USD")
	require.True(t, f.Next())

	// Recipient stage incomplete: no draft yet.
	_, ok := f.Draft()
	require.False(t, ok)
	assert.NotEmpty(t, f.FieldError(intake.FieldRecipientName))

	f.SetField(intake.FieldRecipientName, "J. Watson")
	f.SetField(intake.FieldRecipientAccount, "987654321")
	f.SetField(intake.FieldSwiftCode, "ABCDEF12")
	f.SetField(intake.FieldBankName, "First International")

	draft, ok := f.Draft()
	require.True(t, ok)
	assert.True(t, draft.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "USD", draft.Currency)
	assert.Equal(t, "987654321", draft.RecipientAccount)
	assert.Equal(t, "ABCDEF12", draft.SwiftCode)
}

// A draft with failures on both stages reports every failing field in one
// pass, not just the first stage's.
func TestForm_DraftReportsBothStages(t *testing.T) {
	f := intake.NewForm()
	f.SetField(intake.FieldAmount, "-5")
	f.SetField(intake.FieldSwiftCode, "nope")

	_, ok := f.Draft()
	require.False(t, ok)

	assert.NotEmpty(t, f.FieldError(intake.FieldAmount))
	assert.NotEmpty(t, f.FieldError(intake.FieldSwiftCode))
	assert.NotEmpty(t, f.FieldError(intake.FieldRecipientName))
	assert.NotEmpty(t, f.FieldError(intake.FieldBankName))
}
