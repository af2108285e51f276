package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two portals. An account is exactly one of the two;
// the role travels in the capability token and never changes within a
// session.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleStaff
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrBadCredentials    = errors.New("invalid credentials")
	ErrDuplicateUserName = errors.New("username already taken")
)

// Customer is a registered bank customer who can request transfers.
type Customer struct {
	ID            uuid.UUID
	FullName      string
	IDNumber      string
	AccountNumber string
	UserName      string
	PasswordHash  string
	CreatedAt     time.Time
}

// Staff is a bank employee who verifies and forwards transfers. Staff
// accounts are provisioned out of band; there is no staff registration.
type Staff struct {
	ID           uuid.UUID
	FullName     string
	UserName     string
	PasswordHash string
}

// FieldErrors is a field-scoped validation failure. Each key is an input
// field name; the caller surfaces messages next to the offending field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}

	return strings.Join(parts, "; ")
}

var (
	idNumberPattern      = regexp.MustCompile(`^\d{13}$`)
	accountNumberPattern = regexp.MustCompile(`^\d{10,12}$`)
)

type RegisterParams struct {
	FullName      string
	IDNumber      string
	AccountNumber string
	UserName      string
	Password      string
}

func (p RegisterParams) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(p.FullName) == "" {
		errs["fullName"] = "full name is required"
	}

	if !idNumberPattern.MatchString(p.IDNumber) {
		errs["idNumber"] = "ID number must be 13 digits"
	}

	if !accountNumberPattern.MatchString(p.AccountNumber) {
		errs["accountNumber"] = "account number must be 10-12 digits"
	}

	if strings.TrimSpace(p.UserName) == "" {
		errs["userName"] = "username is required"
	}

	if len(p.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}
