package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Denish004/banking-system/internal/audit"
	"github.com/Denish004/banking-system/internal/config"
	"github.com/Denish004/banking-system/internal/handler"
	"github.com/Denish004/banking-system/internal/middleware"
	"github.com/Denish004/banking-system/internal/repository"
	"github.com/Denish004/banking-system/internal/service"
	"github.com/Denish004/banking-system/internal/utils/email"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize layers
	repo := repository.NewRepository(db)
	var notifier service.Notifier
	if cfg.SMTPEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, logger, notifier)
	h := handler.NewHandler(svc, logger)

	// Scheduled ledger consistency audit
	auditor := audit.NewAuditor(repo, logger)
	cronJob, err := auditor.Schedule(cfg.AuditSchedule)
	if err != nil {
		logger.Fatalf("Failed to start ledger audit: %v", err)
	}
	defer cronJob.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/users/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(svc, logger))
	authRouter.HandleFunc("/users/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/users/all", h.AllUsers).Methods("GET")
	authRouter.HandleFunc("/users/{userId:[0-9]+}", h.UserDetails).Methods("GET")
	authRouter.HandleFunc("/accounts", h.Accounts).Methods("GET")
	authRouter.HandleFunc("/accounts/all", h.AllAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts/transactions", h.UserTransactions).Methods("GET")
	authRouter.HandleFunc("/accounts/{accountId:[0-9]+}/transactions", h.AccountTransactions).Methods("GET")
	authRouter.HandleFunc("/accounts/{accountId:[0-9]+}/statement", h.AccountStatement).Methods("GET")
	authRouter.HandleFunc("/accounts/deposit", h.Deposit).Methods("POST")
	authRouter.HandleFunc("/accounts/withdraw", h.Withdraw).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
