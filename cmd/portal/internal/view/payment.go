package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novabank/payportal/internal/intake"
	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

type payState int

const (
	payStateAmount payState = iota
	payStateRecipient
	payStateConfirm
	payStateSubmitting
	payStateDone
)

type createPaymentMsg struct {
	gen uint64
	tx  *transaction.Transaction
	err error
}

// PaymentModel drives the two-stage payment wizard. The form itself owns
// the field values and validation; the view only moves focus and renders
// whatever errors the form reports.
type PaymentModel struct {
	CommonModel
	session *session.Session
	form    *intake.Form

	state payState

	amountInput textinput.Model
	currencyIdx int

	recipientInputs []textinput.Model
	focusIndex      int

	errMsg string
}

// recipientFields orders the stage-two inputs; index matches recipientInputs.
var recipientFields = []string{
	intake.FieldRecipientName,
	intake.FieldRecipientAccount,
	intake.FieldSwiftCode,
	intake.FieldBankName,
}

func NewPaymentModel(sess *session.Session) PaymentModel {
	amountIn := textinput.New()
	amountIn.Placeholder = "0.00"
	amountIn.CharLimit = 20
	amountIn.Width = 20
	amountIn.Prompt = "Amount: "
	amountIn.Focus()

	labels := []string{"Recipient name: ", "Recipient account: ", "SWIFT code: ", "Bank name: "}

	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Width = 34
		in.Prompt = label
		inputs[i] = in
	}

	return PaymentModel{
		session:         sess,
		form:            intake.NewForm(),
		amountInput:     amountIn,
		recipientInputs: inputs,
	}
}

func (m PaymentModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PaymentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createPaymentMsg:
		if m.session.Stale(msg.gen) {
			return m, nil
		}

		if msg.err != nil {
			if err := m.session.Observe(msg.err); errors.Is(err, session.ErrSessionExpired) {
				return m, sessionExpired(user.RoleCustomer)
			}

			m.state = payStateConfirm
			m.errMsg = fmt.Sprintf("Payment failed: %v", msg.err)

			return m, nil
		}

		m.state = payStateDone
		m.errMsg = ""

		return m, nil
	}

	switch m.state {
	case payStateAmount:
		return m.updateAmount(msg)
	case payStateRecipient:
		return m.updateRecipient(msg)
	case payStateConfirm:
		return m.updateConfirm(msg)
	case payStateDone:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, Navigate(TargetCustomerDashboard)
		}
	}

	return m, nil
}

func (m PaymentModel) updateAmount(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Navigate(TargetCustomerDashboard)
		case tea.KeyLeft:
			m.cycleCurrency(-1)
			return m, nil
		case tea.KeyRight:
			m.cycleCurrency(1)
			return m, nil
		case tea.KeyEnter:
			m.form.SetField(intake.FieldAmount, m.amountInput.Value())
			if m.form.Next() {
				m.focusIndex = 0
				m.recipientInputs[0].Focus()
				m.state = payStateRecipient
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	m.form.SetField(intake.FieldAmount, m.amountInput.Value())

	return m, cmd
}

func (m *PaymentModel) cycleCurrency(step int) {
	n := len(transaction.SupportedCurrencies)
	m.currencyIdx = (m.currencyIdx + step + n) % n
	m.form.SetField(intake.FieldCurrency, transaction.SupportedCurrencies[m.currencyIdx])
}

func (m PaymentModel) updateRecipient(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			// Back keeps everything entered so far.
			m.form.Back()
			m.state = payStateAmount
			m.recipientInputs[m.focusIndex].Blur()
			m.amountInput.Focus()

			return m, nil

		case tea.KeyTab, tea.KeyDown:
			m.moveFocus(1)
			return m, nil

		case tea.KeyShiftTab, tea.KeyUp:
			m.moveFocus(-1)
			return m, nil

		case tea.KeyEnter:
			if m.focusIndex < len(m.recipientInputs)-1 {
				m.moveFocus(1)
				return m, nil
			}

			m.syncRecipientFields()
			if _, ok := m.form.Draft(); ok {
				m.recipientInputs[m.focusIndex].Blur()
				m.errMsg = ""
				m.state = payStateConfirm
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.recipientInputs[m.focusIndex], cmd = m.recipientInputs[m.focusIndex].Update(msg)
	m.form.SetField(recipientFields[m.focusIndex], m.recipientInputs[m.focusIndex].Value())

	return m, cmd
}

func (m *PaymentModel) moveFocus(step int) {
	m.recipientInputs[m.focusIndex].Blur()
	n := len(m.recipientInputs)
	m.focusIndex = (m.focusIndex + step + n) % n
	m.recipientInputs[m.focusIndex].Focus()
}

func (m *PaymentModel) syncRecipientFields() {
	for i, field := range recipientFields {
		m.form.SetField(field, m.recipientInputs[i].Value())
	}
}

func (m PaymentModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "e":
		m.state = payStateRecipient
		m.recipientInputs[m.focusIndex].Focus()

		return m, nil

	case "enter", "y":
		params, ok := m.form.Draft()
		if !ok {
			m.state = payStateRecipient
			m.recipientInputs[m.focusIndex].Focus()

			return m, nil
		}

		m.state = payStateSubmitting

		sess := m.session
		gen := sess.Generation()

		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()

			tx, err := sess.Client().CreateTransaction(ctx, params)
			return createPaymentMsg{gen: gen, tx: tx, err: err}
		}
	}

	return m, nil
}

func (m PaymentModel) View() string {
	switch m.state {
	case payStateAmount:
		return m.viewAmount()
	case payStateRecipient:
		return m.viewRecipient()
	case payStateConfirm:
		return m.viewConfirm()
	case payStateSubmitting:
		return padStyle.Render(titleStyle.Render("New Payment") + "\n\nSending payment...")
	case payStateDone:
		return padStyle.Render(titleStyle.Render("New Payment") + "\n\n" +
			"Payment created. It is pending verification by bank staff.\n\n" +
			statusStyle.Render("Press any key to return to your dashboard."))
	}

	return ""
}

func (m PaymentModel) viewAmount() string {
	s := titleStyle.Render("New Payment — Step 1 of 2") + "\n\n"
	s += m.amountInput.View() + "\n"
	s += m.fieldError(intake.FieldAmount)

	currency := transaction.SupportedCurrencies[m.currencyIdx]
	s += fmt.Sprintf("Currency: %s  %s\n",
		lipgloss.NewStyle().Bold(true).Render(currency),
		statusStyle.Render("(←/→ to change)"))
	s += m.fieldError(intake.FieldCurrency)

	s += "\n" + statusStyle.Render("Enter: continue | Esc: cancel")

	return padStyle.Render(s)
}

func (m PaymentModel) viewRecipient() string {
	s := titleStyle.Render("New Payment — Step 2 of 2") + "\n\n"

	for i, in := range m.recipientInputs {
		s += in.View() + "\n"
		s += m.fieldError(recipientFields[i])
	}

	s += "\n" + statusStyle.Render("Tab: next field | Enter: review | Esc: back to amount")

	return padStyle.Render(s)
}

func (m PaymentModel) viewConfirm() string {
	params, _ := m.form.Draft()

	s := titleStyle.Render("Confirm Payment") + "\n\n"

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	s += fmt.Sprintf("Amount:            %s\n", FormatAmount(params.Amount, params.Currency))
	s += fmt.Sprintf("Recipient:         %s\n", params.RecipientName)
	s += fmt.Sprintf("Recipient account: %s\n", params.RecipientAccount)
	s += fmt.Sprintf("Bank:              %s\n", params.BankName)
	s += fmt.Sprintf("SWIFT code:        %s\n", params.SwiftCode)

	s += "\n" + statusStyle.Render("Enter: pay now | e: edit | Esc: back")

	return padStyle.Render(s)
}

func (m PaymentModel) fieldError(field string) string {
	msg := m.form.FieldError(field)
	if msg == "" {
		return ""
	}

	return errorStyle.Render("  "+msg) + "\n"
}
