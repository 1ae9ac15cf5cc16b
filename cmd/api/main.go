package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/jmdelacruz/pharmacy-inventory/internal/handler"
	"github.com/jmdelacruz/pharmacy-inventory/internal/integrations/rates"
	"github.com/jmdelacruz/pharmacy-inventory/internal/jwtutil"
	"github.com/jmdelacruz/pharmacy-inventory/internal/middleware"
	"github.com/jmdelacruz/pharmacy-inventory/internal/repository"
	"github.com/jmdelacruz/pharmacy-inventory/internal/scheduler"
	"github.com/jmdelacruz/pharmacy-inventory/internal/service"
	"github.com/jmdelacruz/pharmacy-inventory/internal/utils/email"
	_ "github.com/lib/pq"
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
	if err := repo.Migrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	tokens := jwtutil.New(cfg.JWTSecret, 24*time.Hour)
	authSvc := service.NewAuthService(repo, service.BcryptHasher{}, tokens, logger)
	inventorySvc := service.NewInventoryService(repo, repo, logger)
	h := handler.NewHandler(authSvc, inventorySvc, cfg, logger)
	ratesClient := rates.NewClient(cfg, logger)

	// Start the daily inventory check
	mailer := email.NewSender(cfg, logger)
	sched := scheduler.New(inventorySvc, mailer, cfg, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	// Reference exchange rate endpoint
	r.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) {
		currency := r.URL.Query().Get("currency")
		if currency == "" {
			currency = "USD"
		}
		rate, err := ratesClient.GetRate(currency)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"currency": currency, "rate": rate})
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Auth(tokens))
	authRouter.HandleFunc("/auth/change-password", h.ChangePassword).Methods("POST")
	authRouter.HandleFunc("/profile", h.Profile).Methods("GET")
	authRouter.HandleFunc("/products", h.CreateProduct).Methods("POST")
	authRouter.HandleFunc("/products", h.ListProducts).Methods("GET")
	authRouter.HandleFunc("/products/search", h.SearchProduct).Methods("GET")
	authRouter.HandleFunc("/products/summary", h.InventorySummary).Methods("GET")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")
	authRouter.HandleFunc("/products/{id:[0-9]+}", h.ArchiveProduct).Methods("DELETE")
	authRouter.HandleFunc("/suppliers", h.CreateSupplier).Methods("POST")
	authRouter.HandleFunc("/suppliers", h.ListSuppliers).Methods("GET")
	authRouter.HandleFunc("/suppliers/{id:[0-9]+}", h.DeleteSupplier).Methods("DELETE")

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
