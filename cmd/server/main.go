// Package main initializes and starts the Atlas Account Vault API
// server: configuration, logging, database, repositories, services,
// handlers and the HTTP listener.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/jayakumar9/atlas-account-vault/internal/config"
	"github.com/jayakumar9/atlas-account-vault/internal/db"
	"github.com/jayakumar9/atlas-account-vault/internal/logger"
	"github.com/jayakumar9/atlas-account-vault/internal/repository"
	"github.com/jayakumar9/atlas-account-vault/internal/server/handler/http"
	"github.com/jayakumar9/atlas-account-vault/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Expired file-access tokens pile up; sweep them periodically.
	db.StartAccessTokenCleaner(context.Background(), postgresDB,
		time.Minute, // interval
		zapLogger,
	)

	// Initialize repositories for authentication and account storage.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	accountRepo := repository.NewPostgresAccountRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, []byte(options.JWTSecret))
	accountService := service.NewAccountService(accountRepo, options.BaseURL)

	// Create HTTP handlers for auth, accounts and the health probe.
	authHandler := &http.AuthHandler{AuthService: authService}
	accountHandler := &http.AccountHandler{AccountService: accountService}
	statusHandler := &http.StatusHandler{DB: postgresDB}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, accountHandler, statusHandler, []byte(options.JWTSecret), zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
