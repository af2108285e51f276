package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/novabank/payportal/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCustomer(ctx context.Context, c *user.Customer) error {
	query := `
		INSERT INTO customers (id, full_name, id_number, account_number, user_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.FullName, c.IDNumber, c.AccountNumber, c.UserName, c.PasswordHash, c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrDuplicateUserName
		}

		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*user.Customer, error) {
	query := `
		SELECT id, full_name, id_number, account_number, user_name, password_hash, created_at
		FROM customers
		WHERE id = $1
	`

	var c user.Customer

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.FullName, &c.IDNumber, &c.AccountNumber, &c.UserName, &c.PasswordHash, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return &c, nil
}

func (s *Store) FindCustomerByLogin(ctx context.Context, userName, accountNumber string) (*user.Customer, error) {
	query := `
		SELECT id, full_name, id_number, account_number, user_name, password_hash, created_at
		FROM customers
		WHERE user_name = $1 AND account_number = $2
	`

	var c user.Customer

	err := s.db.QueryRowContext(ctx, query, userName, accountNumber).Scan(
		&c.ID, &c.FullName, &c.IDNumber, &c.AccountNumber, &c.UserName, &c.PasswordHash, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("finding customer: %w", err)
	}

	return &c, nil
}

func (s *Store) GetStaff(ctx context.Context, id uuid.UUID) (*user.Staff, error) {
	query := `
		SELECT id, full_name, user_name, password_hash
		FROM staff
		WHERE id = $1
	`

	var st user.Staff

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.FullName, &st.UserName, &st.PasswordHash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting staff: %w", err)
	}

	return &st, nil
}

func (s *Store) FindStaffByUserName(ctx context.Context, userName string) (*user.Staff, error) {
	query := `
		SELECT id, full_name, user_name, password_hash
		FROM staff
		WHERE user_name = $1
	`

	var st user.Staff

	err := s.db.QueryRowContext(ctx, query, userName).Scan(
		&st.ID, &st.FullName, &st.UserName, &st.PasswordHash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("finding staff: %w", err)
	}

	return &st, nil
}
