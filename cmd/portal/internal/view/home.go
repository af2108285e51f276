package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/novabank/payportal/internal/session"
)

type homeEntry struct {
	label  string
	target Target
}

type HomeModel struct {
	CommonModel
	session *session.Session

	entries []homeEntry
	cursor  int
	notice  string
}

func NewHomeModel(sess *session.Session, notice string) HomeModel {
	return HomeModel{
		session: sess,
		notice:  notice,
		entries: []homeEntry{
			{label: "Customer portal", target: TargetCustomerDashboard},
			{label: "Register as a customer", target: TargetCustomerRegister},
			{label: "Staff portal", target: TargetStaffReview},
		},
	}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		return m, Navigate(m.entries[m.cursor].target)
	case "L":
		if m.session.CurrentActor().Authenticated {
			m.session.Logout()
			m.notice = "Signed out."
		}
	}

	return m, nil
}

func (m HomeModel) View() string {
	s := titleStyle.Render("International Payments Portal") + "\n\n"

	actor := m.session.CurrentActor()
	if actor.Authenticated {
		s += statusStyle.Render(fmt.Sprintf("Signed in as %s (%s)", actor.Name, actor.Role)) + "\n\n"
	}

	if m.notice != "" {
		s += statusStyle.Render(m.notice) + "\n\n"
	}

	for i, entry := range m.entries {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, entry.label)
	}

	s += "\n" + statusStyle.Render("Enter: open | L: sign out | q: quit")

	return padStyle.Render(s)
}
