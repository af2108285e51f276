package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/novabank/payportal/internal/auth"
	"github.com/novabank/payportal/internal/http/middleware"
	txHandler "github.com/novabank/payportal/internal/http/transaction"
	userHandler "github.com/novabank/payportal/internal/http/user"
	"github.com/novabank/payportal/internal/user"
)

func New(
	authSvc *auth.Service,
	userH *userHandler.Handler,
	txH *txHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Open endpoints: registration and the two logins.
	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.AllowContentType("application/json"))
		r.Post("/Customer", userH.Register)
		r.Post("/User/customer-login", userH.CustomerLogin)
		r.Post("/User/login", userH.StaffLogin)
	})

	// Everything else requires a bearer token; staff-only routes are
	// additionally role-gated.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(authSvc))

		r.Post("/User/customer-logout", userH.CustomerLogout)
		r.Post("/User/logout", userH.StaffLogout)
		r.Get("/User/current-customer/{customerId}", userH.CurrentCustomer)
		r.Get("/Transaction/Customer/{customerId}", txH.ListByCustomer)

		r.With(middleware.RequireRole(user.RoleCustomer)).
			Post("/Transaction", txH.Create)

		r.Route("/Transaction/Staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleStaff))
			r.Get("/", txH.ListAll)
			r.Post("/Verify", txH.Verify)
			r.Post("/Submit", txH.Submit)
		})

		r.With(middleware.RequireRole(user.RoleStaff)).
			Get("/User/current-user/{employeeId}", userH.CurrentUser)
	})

	return router
}
