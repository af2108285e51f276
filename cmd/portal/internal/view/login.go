package view

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/novabank/payportal/internal/apiclient"
	"github.com/novabank/payportal/internal/session"
)

type loginResultMsg struct {
	err error
}

// CustomerLoginModel signs a customer in with the three-factor login:
// username, password and account number.
type CustomerLoginModel struct {
	CommonModel
	session *session.Session

	form       *huh.Form
	userName   string
	password   string
	accountNum string

	submitting bool
	errMsg     string
	notice     string
}

func NewCustomerLoginModel(sess *session.Session, notice string) CustomerLoginModel {
	m := CustomerLoginModel{session: sess, notice: notice}
	m.form = m.newForm()

	return m
}

func (m *CustomerLoginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("userName").
				Title("Username").
				Value(&m.userName).
				Validate(required("username")),

			huh.NewInput().
				Key("accountNumber").
				Title("Account number").
				Value(&m.accountNum).
				Validate(required("account number")),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password")),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m CustomerLoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CustomerLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Navigate(TargetHome)
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = loginErrorMessage(msg.err)
			m.form = m.newForm()

			return m, m.form.Init()
		}

		return m, Navigate(TargetCustomerDashboard)
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.errMsg = ""

	sess := m.session
	userName := m.form.GetString("userName")
	password := m.form.GetString("password")
	accountNum := m.form.GetString("accountNumber")

	return m, func() tea.Msg {
		err := sess.LoginCustomer(context.Background(), userName, password, accountNum)
		return loginResultMsg{err: err}
	}
}

func (m CustomerLoginModel) View() string {
	s := titleStyle.Render("Customer Sign In") + "\n\n"

	if m.notice != "" {
		s += statusStyle.Render(m.notice) + "\n\n"
	}

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	if m.submitting {
		s += "Signing in..."
	} else {
		s += m.form.View()
	}

	s += "\n" + statusStyle.Render("Esc: back")

	return padStyle.Render(s)
}

// StaffLoginModel signs a bank employee in.
type StaffLoginModel struct {
	CommonModel
	session *session.Session

	form     *huh.Form
	userName string
	password string

	submitting bool
	errMsg     string
	notice     string
}

func NewStaffLoginModel(sess *session.Session, notice string) StaffLoginModel {
	m := StaffLoginModel{session: sess, notice: notice}
	m.form = m.newForm()

	return m
}

func (m *StaffLoginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("userName").
				Title("Employee username").
				Value(&m.userName).
				Validate(required("username")),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password")),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m StaffLoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m StaffLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Navigate(TargetHome)
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = loginErrorMessage(msg.err)
			m.form = m.newForm()

			return m, m.form.Init()
		}

		return m, Navigate(TargetStaffReview)
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.errMsg = ""

	sess := m.session
	userName := m.form.GetString("userName")
	password := m.form.GetString("password")

	return m, func() tea.Msg {
		err := sess.LoginStaff(context.Background(), userName, password)
		return loginResultMsg{err: err}
	}
}

func (m StaffLoginModel) View() string {
	s := titleStyle.Render("Staff Sign In") + "\n\n"

	if m.notice != "" {
		s += statusStyle.Render(m.notice) + "\n\n"
	}

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	if m.submitting {
		s += "Signing in..."
	} else {
		s += m.form.View()
	}

	s += "\n" + statusStyle.Render("Esc: back")

	return padStyle.Render(s)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}

		return nil
	}
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "Invalid credentials."
	case errors.Is(err, apiclient.ErrUnavailable):
		return "Cannot reach the server. Try again shortly."
	default:
		return "Sign in failed: " + err.Error()
	}
}
