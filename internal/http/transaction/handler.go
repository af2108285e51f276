package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novabank/payportal/internal/http/middleware"
	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

type Handler struct {
	svc     *transaction.Service
	userSvc *user.Service
}

func NewHandler(svc *transaction.Service, userSvc *user.Service) *Handler {
	return &Handler{svc: svc, userSvc: userSvc}
}

type createRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	BankName         string          `json:"bankName"`
	SwiftCode        string          `json:"swiftCode"`
}

// Create records a payment request for the authenticated customer. The
// customer identity fields come from the verified principal, never from the
// request body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.userSvc.GetCustomer(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		CustomerID:       c.ID,
		CustomerName:     c.FullName,
		AccountNumber:    c.AccountNumber,
		Amount:           req.Amount,
		Currency:         req.Currency,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		BankName:         req.BankName,
		SwiftCode:        req.SwiftCode,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidAmount) || errors.Is(err, transaction.ErrUnsupportedCurrency) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "missing authorization", http.StatusUnauthorized)
		return
	}

	if p.Role == user.RoleCustomer && p.ID != id {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	txs, err := h.svc.ListByCustomer(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListAll(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

type verifyRequest struct {
	TransactionID uuid.UUID `json:"transactionId"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.svc.Verify(r.Context(), req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			http.Error(w, "transaction not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrAlreadySubmitted):
			http.Error(w, "transaction already submitted", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	TransactionIDs []uuid.UUID `json:"transactionIds"`
}

// Submit forwards a batch of verified transactions to settlement. Each id is
// checked server-side at apply time; the response reports per-item outcomes.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.TransactionIDs) == 0 {
		http.Error(w, "no transactions selected", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Submit(r.Context(), req.TransactionIDs)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toSubmitResultResponse(result))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
