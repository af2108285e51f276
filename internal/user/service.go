package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindCustomerByLogin(ctx context.Context, userName, accountNumber string) (*Customer, error)

	GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindStaffByUserName(ctx context.Context, userName string) (*Staff, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RegisterCustomer(ctx context.Context, params RegisterParams) (*Customer, error) {
	if errs := params.Validate(); errs != nil {
		return nil, errs
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:            uuid.New(),
		FullName:      params.FullName,
		IDNumber:      params.IDNumber,
		AccountNumber: params.AccountNumber,
		UserName:      params.UserName,
		PasswordHash:  hash,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("registering customer: %w", err)
	}

	return c, nil
}

// CustomerLogin checks all three factors. Every failure mode collapses into
// ErrBadCredentials so a caller cannot probe which factor was wrong.
func (s *Service) CustomerLogin(ctx context.Context, userName, password, accountNumber string) (*Customer, error) {
	c, err := s.repo.FindCustomerByLogin(ctx, userName, accountNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}

		return nil, fmt.Errorf("customer login: %w", err)
	}

	if !auth.CheckPassword(c.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	return c, nil
}

func (s *Service) StaffLogin(ctx context.Context, userName, password string) (*Staff, error) {
	st, err := s.repo.FindStaffByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}

		return nil, fmt.Errorf("staff login: %w", err)
	}

	if !auth.CheckPassword(st.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	return st, nil
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.repo.GetStaff(ctx, id)
}
