// Package apiclient is the portal's request/response collaborator: a typed
// HTTP+JSON client for the bank backend. Calls are never retried here; a
// failed submission retried blindly could double-settle a payment, so retry
// is always an explicit user action.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

var (
	// ErrUnauthorized marks a 401-class response. The session model treats
	// any occurrence as session expiry.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable marks a transport failure: the backend was never
	// reached or did not answer. Retryable by the user.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError is a non-401 rejection from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// TokenSource supplies the bearer credential attached to every call. An
// empty token means the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// CustomerProfile is the backend's view of a customer actor.
type CustomerProfile struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"fullName"`
	IDNumber        string    `json:"idNumber"`
	AccountNumber   string    `json:"accountNumber"`
	UserName        string    `json:"userName"`
	Role            user.Role `json:"role"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

type StaffProfile struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Role            user.Role `json:"role"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

type RegisterParams struct {
	FullName      string `json:"fullName"`
	IDNumber      string `json:"idNumber"`
	AccountNumber string `json:"accountNumber"`
	UserName      string `json:"userName"`
	Password      string `json:"password"`
}

func (c *Client) RegisterCustomer(ctx context.Context, params RegisterParams) (*CustomerProfile, error) {
	var profile CustomerProfile
	if err := c.do(ctx, http.MethodPost, "/Customer", params, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

type CustomerLoginResult struct {
	Token string          `json:"token"`
	User  CustomerProfile `json:"user"`
}

func (c *Client) CustomerLogin(ctx context.Context, userName, password, accountNumber string) (*CustomerLoginResult, error) {
	body := map[string]string{
		"userName":      userName,
		"password":      password,
		"accountNumber": accountNumber,
	}

	var result CustomerLoginResult
	if err := c.do(ctx, http.MethodPost, "/User/customer-login", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

type StaffLoginResult struct {
	Token string    `json:"token"`
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  user.Role `json:"role"`
}

func (c *Client) StaffLogin(ctx context.Context, userName, password string) (*StaffLoginResult, error) {
	body := map[string]string{"userName": userName, "password": password}

	var result StaffLoginResult
	if err := c.do(ctx, http.MethodPost, "/User/login", body, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CustomerLogout(ctx context.Context, customerID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/User/customer-logout", map[string]uuid.UUID{"customerId": customerID}, nil)
}

func (c *Client) StaffLogout(ctx context.Context, employeeID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/User/logout", map[string]uuid.UUID{"employeeId": employeeID}, nil)
}

func (c *Client) CurrentCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerProfile, error) {
	var profile CustomerProfile
	if err := c.do(ctx, http.MethodGet, "/User/current-customer/"+customerID.String(), nil, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (c *Client) CurrentUser(ctx context.Context, employeeID uuid.UUID) (*StaffProfile, error) {
	var profile StaffProfile
	if err := c.do(ctx, http.MethodGet, "/User/current-user/"+employeeID.String(), nil, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

type transactionDTO struct {
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

func (d transactionDTO) toDomain() *transaction.Transaction {
	return &transaction.Transaction{
		ID:               d.ID,
		CustomerID:       d.CustomerID,
		CustomerName:     d.CustomerName,
		AccountNumber:    d.AccountNumber,
		Amount:           d.Amount,
		Currency:         d.Currency,
		RecipientName:    d.RecipientName,
		RecipientAccount: d.RecipientAccount,
		BankName:         d.BankName,
		SwiftCode:        d.SwiftCode,
		Verified:         d.Verified,
		SubmittedToSwift: d.SubmittedToSwift,
		CreatedAt:        d.Date,
	}
}

func toDomainList(dtos []transactionDTO) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, len(dtos))
	for i, d := range dtos {
		txs[i] = d.toDomain()
	}

	return txs
}

func (c *Client) CustomerTransactions(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	var dtos []transactionDTO
	if err := c.do(ctx, http.MethodGet, "/Transaction/Customer/"+customerID.String(), nil, &dtos); err != nil {
		return nil, err
	}

	return toDomainList(dtos), nil
}

func (c *Client) AllTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	var dtos []transactionDTO
	if err := c.do(ctx, http.MethodGet, "/Transaction/Staff", nil, &dtos); err != nil {
		return nil, err
	}

	return toDomainList(dtos), nil
}

type CreateTransactionParams struct {
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	BankName         string          `json:"bankName"`
	SwiftCode        string          `json:"swiftCode"`
}

func (c *Client) CreateTransaction(ctx context.Context, params CreateTransactionParams) (*transaction.Transaction, error) {
	var dto transactionDTO
	if err := c.do(ctx, http.MethodPost, "/Transaction", params, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

func (c *Client) VerifyTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/Transaction/Staff/Verify", map[string]uuid.UUID{"transactionId": id}, nil)
}

type submitResultDTO struct {
	Submitted []uuid.UUID `json:"submitted"`
	Rejected  []struct {
		ID     uuid.UUID `json:"id"`
		Reason string    `json:"reason"`
	} `json:"rejected"`
}

func (c *Client) SubmitTransactions(ctx context.Context, ids []uuid.UUID) (*transaction.SubmitResult, error) {
	body := map[string][]uuid.UUID{"transactionIds": ids}

	var dto submitResultDTO
	if err := c.do(ctx, http.MethodPost, "/Transaction/Staff/Submit", body, &dto); err != nil {
		return nil, err
	}

	result := &transaction.SubmitResult{Submitted: dto.Submitted}
	for _, rej := range dto.Rejected {
		result.Rejected = append(result.Rejected, transaction.Rejection{
			ID:     rej.ID,
			Reason: transaction.RejectReason(rej.Reason),
		})
	}

	return result, nil
}
