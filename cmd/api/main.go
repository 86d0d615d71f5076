package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/roxdxebec/jenga-biz-sub001/internal/config"
	"github.com/roxdxebec/jenga-biz-sub001/internal/handler"
	"github.com/roxdxebec/jenga-biz-sub001/internal/middleware"
	"github.com/roxdxebec/jenga-biz-sub001/internal/repository"
	"github.com/roxdxebec/jenga-biz-sub001/internal/service"
	"github.com/roxdxebec/jenga-biz-sub001/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
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
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	var mailer service.Mailer
	if cfg.SMTPEnabled() {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP not configured, sustainability digests disabled")
	}
	svc := service.NewService(repo, logger, cfg, mailer)
	h := handler.NewHandler(svc, logger)

	// Schedule the sustainability sweep
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AlertCron, svc.RunSustainabilitySweep); err != nil {
		logger.Fatalf("Invalid ALERT_CRON %q: %v", cfg.AlertCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/records", h.AddRecord).Methods("POST")
	authRouter.HandleFunc("/businesses/{businessID}/records", h.ListRecords).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/metrics", h.Metrics).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/cashflow", h.Cashflow).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/aggregates", h.Aggregates).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/warnings", h.Warnings).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/forecast", h.Forecast).Methods("GET")
	authRouter.HandleFunc("/businesses/{businessID}/report.xml", h.ExportReport).Methods("GET")

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
