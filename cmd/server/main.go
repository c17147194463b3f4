package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tripdesk/registration-api/internal/auth"
	"github.com/tripdesk/registration-api/internal/config"
	"github.com/tripdesk/registration-api/internal/database"
	"github.com/tripdesk/registration-api/internal/flights"
	"github.com/tripdesk/registration-api/internal/handlers"
	"github.com/tripdesk/registration-api/internal/registration"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Core Components
	directory := flights.NewDirectory(db)
	resolver := flights.NewResolver(db)
	store := registration.NewStore(db)
	service := registration.NewService(db, resolver, store)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	registrationHandler := handlers.NewRegistrationHandler(service, authHandler, cfg)
	adminHandler := handlers.NewAdminHandler(db, directory, resolver, service, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, registrationHandler, adminHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
