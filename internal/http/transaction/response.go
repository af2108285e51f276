package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novabank/payportal/internal/transaction"
)

type transactionResponse struct {
	ID               uuid.UUID       `json:"id"`
	CustomerID       uuid.UUID       `json:"customerId"`
	CustomerName     string          `json:"customerName"`
	AccountNumber    string          `json:"accountNumber"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	BankName         string          `json:"bankName"`
	SwiftCode        string          `json:"swiftCode"`
	Verified         bool            `json:"verified"`
	SubmittedToSwift bool            `json:"submittedToSwift"`
	Date             time.Time       `json:"date"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID,
		CustomerID:       tx.CustomerID,
		CustomerName:     tx.CustomerName,
		AccountNumber:    tx.AccountNumber,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		RecipientName:    tx.RecipientName,
		RecipientAccount: tx.RecipientAccount,
		BankName:         tx.BankName,
		SwiftCode:        tx.SwiftCode,
		Verified:         tx.Verified,
		SubmittedToSwift: tx.SubmittedToSwift,
		Date:             tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type submitResultResponse struct {
	Submitted []uuid.UUID         `json:"submitted"`
	Rejected  []rejectionResponse `json:"rejected"`
}

type rejectionResponse struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

func toSubmitResultResponse(result *transaction.SubmitResult) submitResultResponse {
	resp := submitResultResponse{
		Submitted: result.Submitted,
		Rejected:  make([]rejectionResponse, len(result.Rejected)),
	}

	if resp.Submitted == nil {
		resp.Submitted = []uuid.UUID{}
	}

	for i, rej := range result.Rejected {
		resp.Rejected[i] = rejectionResponse{ID: rej.ID, Reason: string(rej.Reason)}
	}

	return resp
}
