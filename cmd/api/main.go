package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/novabank/payportal/internal/auth"
	"github.com/novabank/payportal/internal/config"
	"github.com/novabank/payportal/internal/database"
	portalHttp "github.com/novabank/payportal/internal/http"
	txHandler "github.com/novabank/payportal/internal/http/transaction"
	userHandler "github.com/novabank/payportal/internal/http/user"
	"github.com/novabank/payportal/internal/logging"
	"github.com/novabank/payportal/internal/transaction"
	txStore "github.com/novabank/payportal/internal/transaction/store"
	"github.com/novabank/payportal/internal/user"
	userStore "github.com/novabank/payportal/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format))

	db, err := database.New(database.Config{
		ConnString:      cfg.ConnectionString(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		authService        = auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		userService        = user.NewService(userStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
	)

	var (
		userH = userHandler.NewHandler(userService, authService)
		txH   = txHandler.NewHandler(transactionService, userService)
	)

	router := portalHttp.New(authService, userH, txH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
