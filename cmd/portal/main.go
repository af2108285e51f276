package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/novabank/payportal/cmd/portal/internal/view"
	"github.com/novabank/payportal/internal/config"
	"github.com/novabank/payportal/internal/guard"
	"github.com/novabank/payportal/internal/session"
	"github.com/novabank/payportal/internal/user"
)

type model struct {
	session *session.Session

	currentView view.Target

	homeView      view.HomeModel
	loginView     view.CustomerLoginModel
	registerView  view.RegisterModel
	dashboardView view.DashboardModel
	paymentView   view.PaymentModel
	staffLogin    view.StaffLoginModel
	reviewView    view.ReviewModel
}

// requiredRole maps guarded screens to the role that may enter them. Screens
// absent from the map are open.
var requiredRole = map[view.Target]user.Role{
	view.TargetCustomerDashboard: user.RoleCustomer,
	view.TargetPayment:           user.RoleCustomer,
	view.TargetStaffReview:       user.RoleStaff,
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	statePath, err := session.DefaultStatePath()
	if err != nil {
		slog.Error("failed to resolve session path", "error", err)
		os.Exit(1)
	}

	sess := session.New(cfg.Portal.APIURL, session.NewStateStore(statePath))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Best effort: an unreachable backend or rejected credential just means
	// starting signed out.
	_ = sess.Resume(ctx)

	return model{
		session:     sess,
		currentView: view.TargetHome,
		homeView:    view.NewHomeModel(sess, ""),
	}
}

func (m model) Init() tea.Cmd {
	return m.homeView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.NavigateMsg:
		return m.navigate(msg.To, msg.Notice)

	case view.SessionExpiredMsg:
		notice := "Your session has expired. Please sign in again."
		if msg.Role == user.RoleStaff {
			return m.open(view.TargetStaffLogin, notice)
		}

		return m.open(view.TargetCustomerLogin, notice)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.dispatch(msg)
}

// navigate applies the route guard before opening a screen: signed-out users
// land on the right login, the wrong role lands back home.
func (m model) navigate(to view.Target, notice string) (tea.Model, tea.Cmd) {
	role, guarded := requiredRole[to]
	if !guarded {
		return m.open(to, notice)
	}

	switch guard.Check(m.session.CurrentActor(), role) {
	case guard.Admit:
		return m.open(to, notice)
	case guard.RedirectCustomerLogin:
		return m.open(view.TargetCustomerLogin, "Please sign in to continue.")
	case guard.RedirectStaffLogin:
		return m.open(view.TargetStaffLogin, "Please sign in to continue.")
	default:
		return m.open(view.TargetHome, "You do not have access to that area.")
	}
}

func (m model) open(to view.Target, notice string) (tea.Model, tea.Cmd) {
	m.currentView = to

	switch to {
	case view.TargetHome:
		m.homeView = view.NewHomeModel(m.session, notice)
		return m, m.homeView.Init()
	case view.TargetCustomerLogin:
		m.loginView = view.NewCustomerLoginModel(m.session, notice)
		return m, m.loginView.Init()
	case view.TargetCustomerRegister:
		m.registerView = view.NewRegisterModel(m.session)
		return m, m.registerView.Init()
	case view.TargetCustomerDashboard:
		m.dashboardView = view.NewDashboardModel(m.session)
		return m, m.dashboardView.Init()
	case view.TargetPayment:
		m.paymentView = view.NewPaymentModel(m.session)
		return m, m.paymentView.Init()
	case view.TargetStaffLogin:
		m.staffLogin = view.NewStaffLoginModel(m.session, notice)
		return m, m.staffLogin.Init()
	case view.TargetStaffReview:
		m.reviewView = view.NewReviewModel(m.session)
		return m, m.reviewView.Init()
	}

	return m, nil
}

func (m model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		newModel tea.Model
		cmd      tea.Cmd
	)

	switch m.currentView {
	case view.TargetHome:
		newModel, cmd = m.homeView.Update(msg)
		m.homeView = newModel.(view.HomeModel)
	case view.TargetCustomerLogin:
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.CustomerLoginModel)
	case view.TargetCustomerRegister:
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case view.TargetCustomerDashboard:
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case view.TargetPayment:
		newModel, cmd = m.paymentView.Update(msg)
		m.paymentView = newModel.(view.PaymentModel)
	case view.TargetStaffLogin:
		newModel, cmd = m.staffLogin.Update(msg)
		m.staffLogin = newModel.(view.StaffLoginModel)
	case view.TargetStaffReview:
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case view.TargetHome:
		return m.homeView.View()
	case view.TargetCustomerLogin:
		return m.loginView.View()
	case view.TargetCustomerRegister:
		return m.registerView.View()
	case view.TargetCustomerDashboard:
		return m.dashboardView.View()
	case view.TargetPayment:
		return m.paymentView.View()
	case view.TargetStaffLogin:
		return m.staffLogin.View()
	case view.TargetStaffReview:
		return m.reviewView.View()
	}

	return ""
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run portal", "error", err)
		os.Exit(1)
	}
}
