package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/novabank/payportal/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	customerID := uuid.New()

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					CustomerID:       customerID,
					CustomerName:     "Thandi Mokoena",
					AccountNumber:    "1234567890",
					Amount:           decimal.RequireFromString("100.00"),
					Currency:         "USD",
					RecipientName:    "J. Watson",
					RecipientAccount: "987654321",
					BankName:         "First International",
					SwiftCode:        "ABCDEF12",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.False(t, tx.Verified)
						assert.False(t, tx.SubmittedToSwift)
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			args: args{
				params: transaction.CreateParams{
					CustomerID: customerID,
					Amount:     decimal.Zero,
					Currency:   "USD",
				},
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount",
			args: args{
				params: transaction.CreateParams{
					CustomerID: customerID,
					Amount:     decimal.RequireFromString("-5.50"),
					Currency:   "EUR",
				},
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "UnsupportedCurrency",
			args: args{
				params: transaction.CreateParams{
					CustomerID: customerID,
					Amount:     decimal.RequireFromString("10.00"),
					Currency:   "ZAR",
				},
			},
			wantErr: transaction.ErrUnsupportedCurrency,
		},
		{
			name: "MalformedCurrency",
			args: args{
				params: transaction.CreateParams{
					CustomerID: customerID,
					Amount:     decimal.RequireFromString("10.00"),
					Currency:   "DOLLARS",
				},
			},
			wantErr: transaction.ErrUnsupportedCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
			assert.Equal(t, transaction.StatusPending, got.Status())
		})
	}
}

func TestService_Verify(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository, id uuid.UUID) {
				m.EXPECT().MarkVerified(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *transaction.MockRepository, id uuid.UUID) {
				m.EXPECT().MarkVerified(gomock.Any(), id).Return(transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
		{
			name: "AlreadySubmitted",
			setupMock: func(m *transaction.MockRepository, id uuid.UUID) {
				m.EXPECT().MarkVerified(gomock.Any(), id).Return(transaction.ErrAlreadySubmitted)
			},
			wantErr: transaction.ErrAlreadySubmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo, id)

			svc := transaction.NewService(repo)
			err := svc.Verify(context.Background(), id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

// Verifying twice must observe the same state as verifying once: the
// repository treats a repeat verify as a successful no-op.
func TestService_Verify_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().MarkVerified(gomock.Any(), id).Return(nil).Times(2)

	svc := transaction.NewService(repo)
	require.NoError(t, svc.Verify(context.Background(), id))
	require.NoError(t, svc.Verify(context.Background(), id))
}

func TestService_Submit_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verified := uuid.New()
	unverified := uuid.New()
	missing := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().MarkSubmitted(gomock.Any(), verified).Return(nil)
	repo.EXPECT().MarkSubmitted(gomock.Any(), unverified).Return(transaction.ErrNotVerified)
	repo.EXPECT().MarkSubmitted(gomock.Any(), missing).Return(transaction.ErrNotFound)

	svc := transaction.NewService(repo)
	result, err := svc.Submit(context.Background(), []uuid.UUID{verified, unverified, missing})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{verified}, result.Submitted)
	require.Len(t, result.Rejected, 2)
	assert.Equal(t, transaction.Rejection{ID: unverified, Reason: transaction.ReasonNotVerified}, result.Rejected[0])
	assert.Equal(t, transaction.Rejection{ID: missing, Reason: transaction.ReasonNotFound}, result.Rejected[1])
}

func TestService_Submit_AlreadySubmitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().MarkSubmitted(gomock.Any(), id).Return(transaction.ErrAlreadySubmitted)

	svc := transaction.NewService(repo)
	result, err := svc.Submit(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)

	assert.Empty(t, result.Submitted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, transaction.ReasonAlreadySubmitted, result.Rejected[0].Reason)
}

func TestService_Submit_RepoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().MarkSubmitted(gomock.Any(), id).Return(errors.New("db down"))

	svc := transaction.NewService(repo)
	result, err := svc.Submit(context.Background(), []uuid.UUID{id})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestService_Submit_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.Submit(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Submitted)
	assert.Empty(t, result.Rejected)
}

func TestTransaction_Status(t *testing.T) {
	tx := &transaction.Transaction{}
	assert.Equal(t, transaction.StatusPending, tx.Status())
	assert.False(t, tx.EligibleForSubmission())

	tx.Verified = true
	assert.Equal(t, transaction.StatusVerified, tx.Status())
	assert.True(t, tx.EligibleForSubmission())

	tx.SubmittedToSwift = true
	assert.Equal(t, transaction.StatusSubmitted, tx.Status())
	assert.False(t, tx.EligibleForSubmission())
}

func TestSupportedCurrency(t *testing.T) {
	for _, code := range transaction.SupportedCurrencies {
		assert.True(t, transaction.SupportedCurrency(code), code)
	}

	assert.False(t, transaction.SupportedCurrency("ZAR"))
	assert.False(t, transaction.SupportedCurrency(""))
	assert.False(t, transaction.SupportedCurrency("usd "))
}
