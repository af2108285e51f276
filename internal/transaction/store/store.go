package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.customer_id, t.customer_name, t.account_number, t.amount, t.currency,
	t.recipient_name, t.recipient_account, t.bank_name, t.swift_code,
	t.verified, t.submitted_to_swift, t.created_at
`

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	if err := s.Scan(
		&tx.ID, &tx.CustomerID, &tx.CustomerName, &tx.AccountNumber, &tx.Amount, &tx.Currency,
		&tx.RecipientName, &tx.RecipientAccount, &tx.BankName, &tx.SwiftCode,
		&tx.Verified, &tx.SubmittedToSwift, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, customer_id, customer_name, account_number, amount, currency,
			recipient_name, recipient_account, bank_name, swift_code,
			verified, submitted_to_swift, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, FALSE, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.CustomerID,
		tx.CustomerName,
		tx.AccountNumber,
		tx.Amount,
		tx.Currency,
		tx.RecipientName,
		tx.RecipientAccount,
		tx.BankName,
		tx.SwiftCode,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// MarkVerified is a compare-and-set against the persisted record: the WHERE
// clause admits pending and already-verified rows (verify is idempotent) but
// never a submitted one. Concurrent staff sessions cannot lose updates
// because the precondition is evaluated by the database, not the caller.
func (s *Store) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET verified = TRUE
		WHERE id = $1 AND submitted_to_swift = FALSE
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("verifying transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verifying transaction: %w", err)
	}

	if affected == 0 {
		return s.classifyMiss(ctx, id, false)
	}

	return nil
}

// MarkSubmitted only transitions rows that are verified and not yet
// submitted; anything else is classified into a typed rejection.
func (s *Store) MarkSubmitted(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET submitted_to_swift = TRUE
		WHERE id = $1 AND verified = TRUE AND submitted_to_swift = FALSE
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("submitting transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("submitting transaction: %w", err)
	}

	if affected == 0 {
		return s.classifyMiss(ctx, id, true)
	}

	return nil
}

// classifyMiss explains why a compare-and-set matched no rows.
func (s *Store) classifyMiss(ctx context.Context, id uuid.UUID, wantVerified bool) error {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.SubmittedToSwift {
		return transaction.ErrAlreadySubmitted
	}

	if wantVerified && !tx.Verified {
		return transaction.ErrNotVerified
	}

	// The record moved between the update and the read. The transition it
	// moved to is the one the caller raced with.
	return transaction.ErrAlreadySubmitted
}

func (s *Store) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.customer_id = $1
		ORDER BY t.created_at ASC`

	return s.list(ctx, query, customerID)
}

func (s *Store) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		ORDER BY t.created_at ASC`

	return s.list(ctx, query)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
