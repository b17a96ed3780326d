package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/config"
	"github.com/taxfree/card-wallet/internal/handler"
	"github.com/taxfree/card-wallet/internal/mail"
	"github.com/taxfree/card-wallet/internal/maintenance"
	"github.com/taxfree/card-wallet/internal/middleware"
	"github.com/taxfree/card-wallet/internal/repository"
	"github.com/taxfree/card-wallet/internal/service"
	"github.com/taxfree/card-wallet/internal/storage"
	"github.com/taxfree/card-wallet/internal/token"
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

	// Initialize database registry and apply migrations to the default database
	registry, err := storage.NewRegistry(cfg.DataDir, cfg.DefaultDB)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	defer registry.Close()

	db, err := registry.Default()
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	mailer := mail.NewSender(cfg, logger)
	svc := service.NewService(repo, registry, tokens, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Recover(logger))
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Public auth routes
	r.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/api").Subrouter()
	authRouter.Use(middleware.Auth(tokens, logger))
	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/cards/owners", h.ListOwners).Methods("GET")
	authRouter.HandleFunc("/cards", h.ListCards).Methods("GET")
	authRouter.HandleFunc("/cards", h.CreateCard).Methods("POST")
	authRouter.HandleFunc("/cards/{id}", h.GetCard).Methods("GET")
	authRouter.HandleFunc("/cards/{id}", h.UpdateCard).Methods("PUT")
	authRouter.HandleFunc("/cards/{id}", h.DeleteCard).Methods("DELETE")

	// Admin routes: generic user CRUD and the database viewer
	r.HandleFunc("/api/users", h.ListUsers).Methods("GET")
	r.HandleFunc("/api/users", h.CreateUser).Methods("POST")
	r.HandleFunc("/api/users/{id}", h.GetUser).Methods("GET")
	r.HandleFunc("/api/users/{id}", h.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/users/{id}", h.DeleteUser).Methods("DELETE")
	r.HandleFunc("/api/db/tables", h.ListTables).Methods("GET")
	r.HandleFunc("/api/db/tables/{table}/structure", h.TableStructure).Methods("GET")
	r.HandleFunc("/api/db/tables/{table}/data", h.TableData).Methods("GET")
	r.HandleFunc("/api/databases", h.ListDatabases).Methods("GET")
	r.HandleFunc("/api/databases", h.CreateDatabase).Methods("POST")
	r.HandleFunc("/api/databases/{name}", h.DropDatabase).Methods("DELETE")

	// Nightly database housekeeping
	scheduler, err := maintenance.NewScheduler(registry, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		logger.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}
