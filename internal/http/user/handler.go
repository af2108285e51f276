package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/auth"
	"github.com/novabank/payportal/internal/http/middleware"
	"github.com/novabank/payportal/internal/user"
)

type Handler struct {
	svc     *user.Service
	authSvc *auth.Service
}

func NewHandler(svc *user.Service, authSvc *auth.Service) *Handler {
	return &Handler{svc: svc, authSvc: authSvc}
}

type registerRequest struct {
	FullName      string `json:"fullName"`
	IDNumber      string `json:"idNumber"`
	AccountNumber string `json:"accountNumber"`
	UserName      string `json:"userName"`
	Password      string `json:"password"`
}

type customerResponse struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"fullName"`
	IDNumber        string    `json:"idNumber,omitempty"`
	AccountNumber   string    `json:"accountNumber"`
	UserName        string    `json:"userName"`
	Role            string    `json:"role"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

func toCustomerResponse(c *user.Customer) customerResponse {
	return customerResponse{
		ID:              c.ID,
		FullName:        c.FullName,
		IDNumber:        c.IDNumber,
		AccountNumber:   c.AccountNumber,
		UserName:        c.UserName,
		Role:            string(user.RoleCustomer),
		IsAuthenticated: true,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.RegisterCustomer(r.Context(), user.RegisterParams{
		FullName:      req.FullName,
		IDNumber:      req.IDNumber,
		AccountNumber: req.AccountNumber,
		UserName:      req.UserName,
		Password:      req.Password,
	})
	if err != nil {
		var fieldErrs user.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
			return
		}

		if errors.Is(err, user.ErrDuplicateUserName) {
			http.Error(w, "username already taken", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

type customerLoginRequest struct {
	UserName      string `json:"userName"`
	Password      string `json:"password"`
	AccountNumber string `json:"accountNumber"`
}

type customerLoginResponse struct {
	Token string           `json:"token"`
	User  customerResponse `json:"user"`
}

func (h *Handler) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req customerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.CustomerLogin(r.Context(), req.UserName, req.Password, req.AccountNumber)
	if err != nil {
		if errors.Is(err, user.ErrBadCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	token, err := h.authSvc.GenerateToken(c.ID.String(), string(user.RoleCustomer))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, customerLoginResponse{Token: token, User: toCustomerResponse(c)})
}

type staffLoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type staffLoginResponse struct {
	Token string    `json:"token"`
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

func (h *Handler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.svc.StaffLogin(r.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrBadCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	token, err := h.authSvc.GenerateToken(st.ID.String(), string(user.RoleStaff))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, staffLoginResponse{
		Token: token,
		ID:    st.ID,
		Name:  st.FullName,
		Role:  string(user.RoleStaff),
	})
}

// CustomerLogout and StaffLogout acknowledge teardown. Tokens are stateless,
// so the server has nothing to revoke; the client discards its copy.
func (h *Handler) CustomerLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StaffLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CurrentCustomer(w http.ResponseWriter, r *http.Request) {
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

	// Customers may only look at themselves; staff may look at anyone.
	if p.Role == user.RoleCustomer && p.ID != id {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

type staffResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "employeeId"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	st, err := h.svc.GetStaff(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, staffResponse{
		ID:              st.ID,
		Name:            st.FullName,
		Role:            string(user.RoleStaff),
		IsAuthenticated: true,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
