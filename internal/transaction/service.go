package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// MarkVerified and MarkSubmitted are compare-and-set transitions: the
	// precondition is checked against the persisted record at apply time,
	// never against a caller-side snapshot.
	MarkVerified(ctx context.Context, id uuid.UUID) error
	MarkSubmitted(ctx context.Context, id uuid.UUID) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error)
	ListAll(ctx context.Context) ([]*Transaction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CustomerID       uuid.UUID
	CustomerName     string
	AccountNumber    string
	Amount           decimal.Decimal
	Currency         string
	RecipientName    string
	RecipientAccount string
	BankName         string
	SwiftCode        string
}

// Create accepts a draft that already passed intake validation and records it
// as a pending transaction. The amount and currency checks are re-asserted
// here: the store is the last line holding the data invariants.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !SupportedCurrency(params.Currency) {
		return nil, ErrUnsupportedCurrency
	}

	tx := &Transaction{
		ID:               uuid.New(),
		CustomerID:       params.CustomerID,
		CustomerName:     params.CustomerName,
		AccountNumber:    params.AccountNumber,
		Amount:           params.Amount,
		Currency:         params.Currency,
		RecipientName:    params.RecipientName,
		RecipientAccount: params.RecipientAccount,
		BankName:         params.BankName,
		SwiftCode:        params.SwiftCode,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

// Verify transitions a pending transaction to verified. Verifying an
// already-verified transaction is a no-op; a submitted transaction can no
// longer be touched by this operation.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkVerified(ctx, id)
}

// RejectReason classifies a per-item submission failure.
type RejectReason string

const (
	ReasonNotFound         RejectReason = "not_found"
	ReasonNotVerified      RejectReason = "not_verified"
	ReasonAlreadySubmitted RejectReason = "already_submitted"
)

type Rejection struct {
	ID     uuid.UUID
	Reason RejectReason
}

type SubmitResult struct {
	Submitted []uuid.UUID
	Rejected  []Rejection
}

// Submit forwards each verified transaction to settlement. The batch is not
// atomic: each identifier succeeds or is rejected on its own, and the result
// reports both sets so the caller can show partial failure.
func (s *Service) Submit(ctx context.Context, ids []uuid.UUID) (*SubmitResult, error) {
	result := &SubmitResult{}

	for _, id := range ids {
		err := s.repo.MarkSubmitted(ctx, id)
		if err == nil {
			result.Submitted = append(result.Submitted, id)
			continue
		}

		reason, ok := rejectReason(err)
		if !ok {
			return nil, fmt.Errorf("submitting transaction %s: %w", id, err)
		}

		result.Rejected = append(result.Rejected, Rejection{ID: id, Reason: reason})
	}

	return result, nil
}

func rejectReason(err error) (RejectReason, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound, true
	case errors.Is(err, ErrNotVerified):
		return ReasonNotVerified, true
	case errors.Is(err, ErrAlreadySubmitted):
		return ReasonAlreadySubmitted, true
	default:
		return "", false
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAll(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListAll(ctx)
}
