package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/auth"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/middleware"
)

// routerDeps are the wired components the router mounts
type routerDeps struct {
	handler     *handlers.Handler
	apiKey      *auth.APIKeyAuth
	hmac        *auth.HMACAuth
	corsOrigins []string
}

// newRouter builds the HTTP routes and middleware stack
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			auth.HeaderAPIKey, auth.HeaderPub, auth.HeaderTs, auth.HeaderNonce, auth.HeaderSig,
		},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.handler

	// Routes
	r.Get("/health", h.HealthCheck)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.apiKey.Middleware)

		r.Get("/health", h.APIHealth)

		// Odds and scans
		r.Get("/odds", h.GetOdds)
		r.Get("/scan", h.Scan)
		r.Get("/ev-full", h.Scan)
		r.Get("/bonus", h.Bonus)

		// Calculators
		r.Route("/math", func(r chi.Router) {
			r.Post("/clv", h.CLV)
			r.Post("/devig", h.Devig)
			r.Post("/arb", h.Arb)
			r.Post("/ev", h.EV)
			r.Post("/quick-ev", h.QuickEV)
			r.Post("/parlay", h.Parlay)
		})

		// Signed requests
		r.Route("/secure", func(r chi.Router) {
			r.Use(deps.hmac.Middleware)
			r.Get("/scan", h.Scan)
		})
	})

	return r
}
