package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tripdesk/registration-api/internal/auth"
)

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, registrationHandler *RegistrationHandler, adminHandler *AdminHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Trip Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	withAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)

		huma.Get(api, "/me", authHandler.HandleMe, withAuth)

		// Registration routes
		huma.Post(api, "/registrations", registrationHandler.HandleSubmit, withAuth)
		huma.Get(api, "/registrations/me", registrationHandler.HandleMyRegistration, withAuth)
		huma.Post(api, "/registrations/me/cancel", registrationHandler.HandleCancel, withAuth)
		huma.Get(api, "/registrations/me/history", registrationHandler.HandleHistory, withAuth)
		huma.Get(api, "/registrations/me/qr", registrationHandler.HandleQR, withAuth)

		// Admin routes
		huma.Post(api, "/flights", adminHandler.HandleSaveFlight, withAuth)
		huma.Get(api, "/flights", adminHandler.HandleListFlights, withAuth)
		huma.Put(api, "/group-flight-assignments", adminHandler.HandleSaveAssignment, withAuth)
		huma.Get(api, "/group-flight-assignments", adminHandler.HandleListAssignments, withAuth)
		huma.Post(api, "/registrations/{reference}/status", adminHandler.HandleSetRegistrationStatus, withAuth)
		huma.Put(api, "/event-settings", adminHandler.HandleSaveEventSettings, withAuth)
	})
}
