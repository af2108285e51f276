package view

import (
	"context"
	"errors"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/novabank/payportal/internal/apiclient"
	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/user"
)

type registerResultMsg struct {
	err error
}

// RegisterModel collects a new customer's details. Field formats are
// enforced locally with the same rules the server applies, so most
// mistakes are caught before the round trip.
type RegisterModel struct {
	CommonModel
	session *session.Session

	form   *huh.Form
	params user.RegisterParams

	submitting bool
	errMsg     string
}

func NewRegisterModel(sess *session.Session) RegisterModel {
	m := RegisterModel{session: sess}
	m.form = m.newForm()

	return m
}

func (m *RegisterModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("fullName").
				Title("Full name").
				Value(&m.params.FullName).
				Validate(fieldValidator("fullName", &m.params)),

			huh.NewInput().
				Key("idNumber").
				Title("ID number (13 digits)").
				Value(&m.params.IDNumber).
				Validate(fieldValidator("idNumber", &m.params)),

			huh.NewInput().
				Key("accountNumber").
				Title("Account number (10-12 digits)").
				Value(&m.params.AccountNumber).
				Validate(fieldValidator("accountNumber", &m.params)),

			huh.NewInput().
				Key("userName").
				Title("Username").
				Value(&m.params.UserName).
				Validate(fieldValidator("userName", &m.params)),

			huh.NewInput().
				Key("password").
				Title("Password (min 8 characters)").
				EchoMode(huh.EchoModePassword).
				Value(&m.params.Password).
				Validate(fieldValidator("password", &m.params)),
		),
	).WithWidth(50).WithShowHelp(false)
}

// fieldValidator runs the full parameter validation and surfaces only the
// error belonging to the field being edited.
func fieldValidator(field string, params *user.RegisterParams) func(string) error {
	return func(string) error {
		err := params.Validate()
		if err == nil {
			return nil
		}

		var fieldErrs user.FieldErrors
		if errors.As(err, &fieldErrs) {
			if msg, ok := fieldErrs[field]; ok {
				return errors.New(msg)
			}

			return nil
		}

		return err
	}
}

func (m RegisterModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Navigate(TargetHome)
		}

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = registerErrorMessage(msg.err)
			m.form = m.newForm()

			return m, m.form.Init()
		}

		return m, NavigateWithNotice(TargetCustomerLogin, "Registration successful. Please sign in.")
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

	client := m.session.Client()
	params := apiclient.RegisterParams{
		FullName:      m.form.GetString("fullName"),
		IDNumber:      m.form.GetString("idNumber"),
		AccountNumber: m.form.GetString("accountNumber"),
		UserName:      m.form.GetString("userName"),
		Password:      m.form.GetString("password"),
	}

	return m, func() tea.Msg {
		_, err := client.RegisterCustomer(context.Background(), params)
		return registerResultMsg{err: err}
	}
}

func (m RegisterModel) View() string {
	s := titleStyle.Render("Customer Registration") + "\n\n"

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	if m.submitting {
		s += "Registering..."
	} else {
		s += m.form.View()
	}

	s += "\n" + statusStyle.Render("Esc: back")

	return padStyle.Render(s)
}

func registerErrorMessage(err error) string {
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		return "That username is already taken."
	case errors.Is(err, apiclient.ErrUnavailable):
		return "Cannot reach the server. Try again shortly."
	default:
		return "Registration failed: " + err.Error()
	}
}
