package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/novabank/payportal/internal/auth"
	portalhttp "github.com/novabank/payportal/internal/http"
	txHandler "github.com/novabank/payportal/internal/http/transaction"
	userHandler "github.com/novabank/payportal/internal/http/user"
	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

type testBackend struct {
	server  *httptest.Server
	authSvc *auth.Service
	txRepo  *transaction.MockRepository
	urRepo  *user.MockRepository
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	ctrl := gomock.NewController(t)

	txRepo := transaction.NewMockRepository(ctrl)
	urRepo := user.NewMockRepository(ctrl)

	authSvc := auth.NewService("test-secret", time.Hour)
	userSvc := user.NewService(urRepo)
	txSvc := transaction.NewService(txRepo)

	router := portalhttp.New(
		authSvc,
		userHandler.NewHandler(userSvc, authSvc),
		txHandler.NewHandler(txSvc, userSvc),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testBackend{server: server, authSvc: authSvc, txRepo: txRepo, urRepo: urRepo}
}

func (b *testBackend) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, b.server.URL+path, &buf)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func (b *testBackend) tokenFor(t *testing.T, id uuid.UUID, role user.Role) string {
	t.Helper()

	token, err := b.authSvc.GenerateToken(id.String(), string(role))
	require.NoError(t, err)

	return token
}

func TestRouter_RejectsMissingAndBadTokens(t *testing.T) {
	b := newTestBackend(t)

	resp := b.request(t, http.MethodGet, "/Transaction/Staff", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = b.request(t, http.MethodGet, "/Transaction/Staff", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_StaffRoutesRejectCustomers(t *testing.T) {
	b := newTestBackend(t)
	token := b.tokenFor(t, uuid.New(), user.RoleCustomer)

	resp := b.request(t, http.MethodGet, "/Transaction/Staff", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = b.request(t, http.MethodPost, "/Transaction/Staff/Verify", token,
		map[string]uuid.UUID{"transactionId": uuid.New()})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_CreateTransaction(t *testing.T) {
	b := newTestBackend(t)

	customerID := uuid.New()
	token := b.tokenFor(t, customerID, user.RoleCustomer)

	b.urRepo.EXPECT().
		GetCustomer(gomock.Any(), customerID).
		Return(&user.Customer{
			ID:            customerID,
			FullName:      "Thandi Mokoena",
			AccountNumber: "1234567890",
		}, nil)

	b.txRepo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, customerID, tx.CustomerID)
			assert.Equal(t, "Thandi Mokoena", tx.CustomerName)
			return nil
		})

	resp := b.request(t, http.MethodPost, "/Transaction", token, map[string]any{
		"amount":           "250.00",
		"currency":         "EUR",
		"recipientName":    "Jonas Weber",
		"recipientAccount": "DE00123456",
		"bankName":         "Deutsche Bank",
		"swiftCode":        "DEUTDEFF",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID       uuid.UUID       `json:"id"`
		Amount   decimal.Decimal `json:"amount"`
		Verified bool            `json:"verified"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.NotEqual(t, uuid.Nil, body.ID)
	assert.True(t, body.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.False(t, body.Verified)
}

func TestRouter_Verify(t *testing.T) {
	b := newTestBackend(t)
	token := b.tokenFor(t, uuid.New(), user.RoleStaff)

	tests := []struct {
		name       string
		markErr    error
		wantStatus int
	}{
		{name: "success", markErr: nil, wantStatus: http.StatusNoContent},
		{name: "not found", markErr: transaction.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "already submitted", markErr: transaction.ErrAlreadySubmitted, wantStatus: http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.New()

			b.txRepo.EXPECT().
				MarkVerified(gomock.Any(), id).
				Return(tc.markErr)

			resp := b.request(t, http.MethodPost, "/Transaction/Staff/Verify", token,
				map[string]uuid.UUID{"transactionId": id})
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestRouter_SubmitReportsPerItemOutcomes(t *testing.T) {
	b := newTestBackend(t)
	token := b.tokenFor(t, uuid.New(), user.RoleStaff)

	okID := uuid.New()
	badID := uuid.New()

	b.txRepo.EXPECT().MarkSubmitted(gomock.Any(), okID).Return(nil)
	b.txRepo.EXPECT().MarkSubmitted(gomock.Any(), badID).Return(transaction.ErrNotVerified)

	resp := b.request(t, http.MethodPost, "/Transaction/Staff/Submit", token,
		map[string][]uuid.UUID{"transactionIds": {okID, badID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Submitted []uuid.UUID `json:"submitted"`
		Rejected  []struct {
			ID     uuid.UUID `json:"id"`
			Reason string    `json:"reason"`
		} `json:"rejected"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, []uuid.UUID{okID}, body.Submitted)
	require.Len(t, body.Rejected, 1)
	assert.Equal(t, badID, body.Rejected[0].ID)
	assert.Equal(t, "not_verified", body.Rejected[0].Reason)
}

func TestRouter_SubmitEmptyBatchRejected(t *testing.T) {
	b := newTestBackend(t)
	token := b.tokenFor(t, uuid.New(), user.RoleStaff)

	resp := b.request(t, http.MethodPost, "/Transaction/Staff/Submit", token,
		map[string][]uuid.UUID{"transactionIds": {}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_CustomerCannotReadOthersTransactions(t *testing.T) {
	b := newTestBackend(t)

	customerID := uuid.New()
	token := b.tokenFor(t, customerID, user.RoleCustomer)

	resp := b.request(t, http.MethodGet, "/Transaction/Customer/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
