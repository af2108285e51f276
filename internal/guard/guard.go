// Package guard decides whether the current actor may enter a role-scoped
// view. It is a pure function of session state: the portal consults it at
// every view transition and follows the decision.
package guard

import (
	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/user"
)

type Decision int

const (
	// Admit lets the actor into the requested view.
	Admit Decision = iota
	// RedirectCustomerLogin and RedirectStaffLogin send an unauthenticated
	// actor to the login screen of the role they tried to reach.
	RedirectCustomerLogin
	RedirectStaffLogin
	// RedirectHome bounces an authenticated actor of the wrong role.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RedirectCustomerLogin:
		return "redirect-customer-login"
	case RedirectStaffLogin:
		return "redirect-staff-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Check admits actor into a view requiring the given role.
func Check(actor session.Actor, required user.Role) Decision {
	if !actor.Authenticated {
		switch required {
		case user.RoleStaff:
			return RedirectStaffLogin
		default:
			return RedirectCustomerLogin
		}
	}

	if actor.Role != required {
		return RedirectHome
	}

	return Admit
}
