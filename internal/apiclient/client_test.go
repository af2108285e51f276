package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novabank/payportal/internal/apiclient"
)

type fixedToken string

func (t fixedToken) Token() string { return string(t) }

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	client := apiclient.New(server.URL, fixedToken("tok-abc"))

	_, err := client.AllTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"token": "t", "user": map[string]any{}})
	}))
	defer server.Close()

	client := apiclient.New(server.URL, fixedToken(""))

	_, err := client.CustomerLogin(context.Background(), "u", "p", "123")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := apiclient.New(server.URL, fixedToken("expired"))

	_, err := client.AllTransactions(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "transaction not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := apiclient.New(server.URL, fixedToken("tok"))

	err := client.VerifyTransaction(context.Background(), uuid.New())

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "transaction not found", apiErr.Message)
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := apiclient.New(server.URL, fixedToken(""))

	_, err := client.AllTransactions(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnavailable)
}

func TestClient_SubmitTransactions(t *testing.T) {
	accepted := uuid.New()
	rejected := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]uuid.UUID
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["transactionIds"], 2)

		json.NewEncoder(w).Encode(map[string]any{
			"submitted": []uuid.UUID{accepted},
			"rejected": []map[string]any{
				{"id": rejected, "reason": "not_verified"},
			},
		})
	}))
	defer server.Close()

	client := apiclient.New(server.URL, fixedToken("tok"))

	result, err := client.SubmitTransactions(context.Background(), []uuid.UUID{accepted, rejected})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{accepted}, result.Submitted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, rejected, result.Rejected[0].ID)
}
