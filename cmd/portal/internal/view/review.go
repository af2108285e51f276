package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/review"
	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/transaction"
	"github.com/novabank/payportal/internal/user"
)

type loadReviewMsg struct {
	gen uint64
	txs []*transaction.Transaction
	err error
}

type verifyResultMsg struct {
	gen uint64
	id  uuid.UUID
	err error
}

type submitResultMsg struct {
	gen    uint64
	result *transaction.SubmitResult
	err    error
}

var (
	selectedMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("[x]")
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	verifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ReviewModel is the staff queue: search, filter, build a selection of
// verified payments and submit them to SWIFT in one batch.
type ReviewModel struct {
	CommonModel
	session  *session.Session
	workflow *review.Workflow

	searchInput textinput.Model
	searching   bool

	cursor  int
	loading bool
	errMsg  string
	status  string
}

func NewReviewModel(sess *session.Session) ReviewModel {
	search := textinput.New()
	search.Placeholder = "name, account or SWIFT"
	search.Prompt = "Search: "
	search.Width = 30

	return ReviewModel{
		session:     sess,
		workflow:    review.New(),
		searchInput: search,
		loading:     true,
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadReviewMsg:
		if m.session.Stale(msg.gen) {
			return m, nil
		}

		m.loading = false
		if msg.err != nil {
			if err := m.session.Observe(msg.err); errors.Is(err, session.ErrSessionExpired) {
				return m, sessionExpired(user.RoleStaff)
			}

			m.errMsg = fmt.Sprintf("Could not load queue: %v", msg.err)

			return m, nil
		}

		m.errMsg = ""
		m.workflow.Reload(msg.txs)
		m.clampCursor()

		return m, nil

	case verifyResultMsg:
		if m.session.Stale(msg.gen) {
			return m, nil
		}

		if msg.err != nil {
			if err := m.session.Observe(msg.err); errors.Is(err, session.ErrSessionExpired) {
				return m, sessionExpired(user.RoleStaff)
			}

			m.status = fmt.Sprintf("Verify failed: %v", msg.err)

			return m, m.loadCmd()
		}

		m.status = "Payment verified."

		return m, m.loadCmd()

	case submitResultMsg:
		if m.session.Stale(msg.gen) {
			return m, nil
		}

		if msg.err != nil {
			if err := m.session.Observe(msg.err); errors.Is(err, session.ErrSessionExpired) {
				return m, sessionExpired(user.RoleStaff)
			}

			// Selection untouched: the operator may retry.
			m.status = fmt.Sprintf("Submit failed: %v", msg.err)

			return m, nil
		}

		m.workflow.ApplySubmitResult(msg.result)
		m.status = submitSummary(msg.result)

		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m ReviewModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.workflow.SetSearch(m.searchInput.Value())
	m.clampCursor()

	return m, cmd
}

func (m ReviewModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.workflow.Visible()

	switch msg.String() {
	case "esc":
		return m, Navigate(TargetHome)

	case "/":
		m.searching = true
		m.searchInput.Focus()

		return m, textinput.Blink

	case "f":
		m.workflow.CycleFilter()
		m.clampCursor()

		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil

	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}

		return m, nil

	case " ":
		if m.cursor < len(visible) {
			if !m.workflow.ToggleSelect(visible[m.cursor].ID) {
				m.status = "Only verified, unsubmitted payments can be selected."
			} else {
				m.status = ""
			}
		}

		return m, nil

	case "a":
		m.workflow.SelectAllEligible()
		m.status = fmt.Sprintf("%d payment(s) selected.", m.workflow.SelectionCount())

		return m, nil

	case "c":
		m.workflow.ClearSelection()
		m.status = ""

		return m, nil

	case "v":
		if m.cursor < len(visible) {
			return m, m.verifyCmd(visible[m.cursor].ID)
		}

		return m, nil

	case "s":
		ids := m.workflow.SelectedIDs()
		if len(ids) == 0 {
			m.status = "Nothing selected."
			return m, nil
		}

		return m, m.submitCmd(ids)

	case "r":
		m.loading = true
		return m, m.loadCmd()
	}

	return m, nil
}

func (m *ReviewModel) clampCursor() {
	if n := len(m.workflow.Visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m ReviewModel) View() string {
	s := titleStyle.Render("Staff Review — SWIFT Submission Queue") + "\n\n"

	s += m.searchInput.View() + "   "
	s += fmt.Sprintf("Filter: %s   Selected: %d\n\n",
		lipgloss.NewStyle().Bold(true).Render(m.workflow.Filter().String()),
		m.workflow.SelectionCount())

	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n\n"
	}

	if m.loading {
		s += "Loading queue...\n"
	} else {
		s += m.renderRows()
	}

	if m.status != "" {
		s += "\n" + statusStyle.Render(m.status)
	}

	s += "\n" + statusStyle.Render(
		"/: search | f: filter | space: select | a: all eligible | c: clear | v: verify | s: submit | r: refresh | Esc: menu")

	return padStyle.Render(s)
}

func (m ReviewModel) renderRows() string {
	visible := m.workflow.Visible()
	if len(visible) == 0 {
		return statusStyle.Render("No payments match.") + "\n"
	}

	var s string
	for i, tx := range visible {
		mark := "[ ]"
		if m.workflow.Selected(tx.ID) {
			mark = selectedMark
		}

		status := pendingStyle.Render(string(tx.Status()))
		if tx.Verified {
			status = verifiedStyle.Render(string(tx.Status()))
		}

		row := fmt.Sprintf("%s %-12s %-24s %-18s %-12s %s",
			mark,
			FormatDate(tx.CreatedAt),
			tx.CustomerName,
			FormatAmount(tx.Amount, tx.Currency),
			tx.SwiftCode,
			status,
		)

		if i == m.cursor {
			row = cursorStyle.Render(row)
		}

		s += row + "\n"
	}

	return s
}

func submitSummary(result *transaction.SubmitResult) string {
	if len(result.Rejected) == 0 {
		return fmt.Sprintf("Submitted %d payment(s) to SWIFT.", len(result.Submitted))
	}

	return fmt.Sprintf("Submitted %d payment(s); %d rejected and kept selected for retry.",
		len(result.Submitted), len(result.Rejected))
}

func (m ReviewModel) loadCmd() tea.Cmd {
	sess := m.session
	gen := sess.Generation()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		txs, err := sess.Client().AllTransactions(ctx)
		return loadReviewMsg{gen: gen, txs: txs, err: err}
	}
}

func (m ReviewModel) verifyCmd(id uuid.UUID) tea.Cmd {
	sess := m.session
	gen := sess.Generation()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		err := sess.Client().VerifyTransaction(ctx, id)
		return verifyResultMsg{gen: gen, id: id, err: err}
	}
}

// submitCmd takes a snapshot of the selection; the workflow itself is only
// touched from the update loop, never from the command goroutine.
func (m ReviewModel) submitCmd(ids []uuid.UUID) tea.Cmd {
	sess := m.session
	gen := sess.Generation()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		result, err := sess.Client().SubmitTransactions(ctx, ids)
		return submitResultMsg{gen: gen, result: result, err: err}
	}
}
