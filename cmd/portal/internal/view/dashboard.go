package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

const callTimeout = 10 * time.Second

type loadDashboardMsg struct {
	gen uint64
	txs []*transaction.Transaction
	err error
}

// DashboardModel is the customer's home screen: their payment history plus
// the entry point into the payment wizard.
type DashboardModel struct {
	CommonModel
	session *session.Session

	table   table.Model
	txs     []*transaction.Transaction
	loading bool
	errMsg  string
	status  string
}

func NewDashboardModel(sess *session.Session) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Recipient", Width: 24},
		{Title: "Amount", Width: 16},
		{Title: "SWIFT", Width: 12},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		session: sess,
		table:   t,
		loading: true,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		// Responses from before a login/logout boundary are discarded.
		if m.session.Stale(msg.gen) {
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			if err := m.session.Observe(msg.err); errors.Is(err, session.ErrSessionExpired) {
				return m, sessionExpired(user.RoleCustomer)
			}

			m.errMsg = fmt.Sprintf("Could not load payments: %v", msg.err)

			return m, nil
		}

		m.errMsg = ""
		m.txs = msg.txs
		m.refreshTable()

		if len(msg.txs) == 0 {
			m.status = "No payments yet. Press n to create one."
		} else {
			m.status = ""
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Navigate(TargetHome)
		case "n":
			return m, Navigate(TargetPayment)
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	actor := m.session.CurrentActor()

	s := titleStyle.Render("My International Payments") + "\n"
	s += statusStyle.Render(fmt.Sprintf("%s · account %s", actor.Name, actor.AccountNumber)) + "\n\n"

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	if m.loading {
		s += "Loading payments..."
	} else {
		s += lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	if m.status != "" {
		s += "\n" + statusStyle.Render(m.status)
	}

	s += "\n" + statusStyle.Render("n: new payment | r: refresh | Esc: menu")

	return padStyle.Render(s)
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			tx.RecipientName,
			FormatAmount(tx.Amount, tx.Currency),
			tx.SwiftCode,
			string(tx.Status()),
		})
	}

	m.table.SetRows(rows)
}

func (m DashboardModel) loadCmd() tea.Cmd {
	sess := m.session
	gen := sess.Generation()
	customerID := sess.CurrentActor().ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		txs, err := sess.Client().CustomerTransactions(ctx, customerID)
		return loadDashboardMsg{gen: gen, txs: txs, err: err}
	}
}

// sessionExpired is emitted after Observe reported an expired session; the
// session itself is already cleared by then.
func sessionExpired(role user.Role) tea.Cmd {
	return func() tea.Msg {
		return SessionExpiredMsg{Role: role}
	}
}
