package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/novabank/payportal/internal/auth"
	"github.com/novabank/payportal/internal/user"
)

func validRegister() user.RegisterParams {
	return user.RegisterParams{
		FullName:      "Thandi Mokoena",
		IDNumber:      "9001015009087",
		AccountNumber: "1234567890",
		UserName:      "thandi.m",
		Password:      "correct horse battery",
	}
}

func TestRegisterParams_Validate(t *testing.T) {
	type testCase struct {
		name      string
		mutate    func(p *user.RegisterParams)
		wantField string
	}

	tests := []testCase{
		{name: "Valid", mutate: func(p *user.RegisterParams) {}},
		{
			name:      "EmptyName",
			mutate:    func(p *user.RegisterParams) { p.FullName = "   " },
			wantField: "fullName",
		},
		{
			name:      "ShortIDNumber",
			mutate:    func(p *user.RegisterParams) { p.IDNumber = "12345" },
			wantField: "idNumber",
		},
		{
			name:      "NonNumericIDNumber",
			mutate:    func(p *user.RegisterParams) { p.IDNumber = "90010150090AB" },
			wantField: "idNumber",
		},
		{
			name:      "ShortAccountNumber",
			mutate:    func(p *user.RegisterParams) { p.AccountNumber = "123456789" },
			wantField: "accountNumber",
		},
		{
			name:      "LongAccountNumber",
			mutate:    func(p *user.RegisterParams) { p.AccountNumber = "1234567890123" },
			wantField: "accountNumber",
		},
		{
			name:      "ShortPassword",
			mutate:    func(p *user.RegisterParams) { p.Password = "short" },
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validRegister()
			tt.mutate(&params)

			errs := params.Validate()
			if tt.wantField == "" {
				assert.Nil(t, errs)
				return
			}

			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestService_RegisterCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateCustomer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *user.Customer) error {
			assert.NotEqual(t, uuid.Nil, c.ID)
			assert.NotEqual(t, "correct horse battery", c.PasswordHash)
			assert.True(t, auth.CheckPassword(c.PasswordHash, "correct horse battery"))
			return nil
		})

	svc := user.NewService(repo)
	c, err := svc.RegisterCustomer(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, "thandi.m", c.UserName)
}

func TestService_RegisterCustomer_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo)

	params := validRegister()
	params.Password = "short"

	_, err := svc.RegisterCustomer(context.Background(), params)

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "password")
}

func TestService_CustomerLogin(t *testing.T) {
	hash, err := auth.HashPassword("pass-word-123")
	require.NoError(t, err)

	stored := &user.Customer{
		ID:            uuid.New(),
		FullName:      "Thandi Mokoena",
		AccountNumber: "1234567890",
		UserName:      "thandi.m",
		PasswordHash:  hash,
	}

	type testCase struct {
		name      string
		password  string
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "pass-word-123",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					FindCustomerByLogin(gomock.Any(), "thandi.m", "1234567890").
					Return(stored, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: "nope-nope-nope",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					FindCustomerByLogin(gomock.Any(), "thandi.m", "1234567890").
					Return(stored, nil)
			},
			wantErr: user.ErrBadCredentials,
		},
		{
			name:     "UnknownUser",
			password: "pass-word-123",
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					FindCustomerByLogin(gomock.Any(), "thandi.m", "1234567890").
					Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrBadCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := user.NewService(repo)
			got, err := svc.CustomerLogin(context.Background(), "thandi.m", tt.password, "1234567890")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, got.ID)
		})
	}
}

func TestService_StaffLogin_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().
		FindStaffByUserName(gomock.Any(), "ghost").
		Return(nil, user.ErrNotFound)

	svc := user.NewService(repo)
	_, err := svc.StaffLogin(context.Background(), "ghost", "whatever1")
	assert.ErrorIs(t, err, user.ErrBadCredentials)
}
