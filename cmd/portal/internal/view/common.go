package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novabank/payportal/internal/user"
)

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// Target names the portal's screens; views request navigation and the root
// model consults the route guard before switching.
type Target int

const (
	TargetHome Target = iota
	TargetCustomerLogin
	TargetCustomerRegister
	TargetCustomerDashboard
	TargetPayment
	TargetStaffLogin
	TargetStaffReview
)

type NavigateMsg struct {
	To Target

	// Notice is shown by the destination view, e.g. "Registration
	// successful" on the login screen.
	Notice string
}

func Navigate(to Target) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to}
	}
}

func NavigateWithNotice(to Target, notice string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to, Notice: notice}
	}
}

// SessionExpiredMsg is emitted when a collaborator call came back
// unauthorized: the session is already torn down, and the root model sends
// the user to the login screen of the role they were acting under.
type SessionExpiredMsg struct {
	Role user.Role
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	padStyle    = lipgloss.NewStyle().Padding(1, 2)
)
