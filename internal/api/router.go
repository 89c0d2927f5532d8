// Package api provides the HTTP API for Yachai.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api/handler"
	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
	"github.com/alessandro-lagamba/yachai-server/internal/copilot"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/journal"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	Database           handler.ReadinessChecker
	AuthService        *auth.Service
	UserService        *user.Service
	TrackingService    *tracking.Service
	JournalService     *journal.Service
	CopilotService     *copilot.Service
	FeatureFlagService *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "yachai-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Database)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.UserService)
	profileHandler := handler.NewProfileHandler(cfg.UserService)
	trackingHandler := handler.NewTrackingHandler(cfg.TrackingService)
	journalHandler := handler.NewJournalHandler(cfg.JournalService)
	copilotHandler := handler.NewCopilotHandler(cfg.CopilotService)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/token", authHandler.Exchange)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", meHandler.GetMe)
			r.Put("/", meHandler.UpdateMe)
			r.Delete("/", meHandler.DeleteMe)

			// Consents
			r.Get("/consents", meHandler.GetConsents)
			r.Put("/consents", meHandler.UpdateConsents)

			// Profile
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)

			// Samples
			r.Route("/samples", func(r chi.Router) {
				r.Get("/", trackingHandler.ListSamples)
				r.Post("/", trackingHandler.RecordSample)
				r.Delete("/{sampleId}", trackingHandler.DeleteSample)
			})

			// Personalization insights
			r.Route("/insights/{metric}", func(r chi.Router) {
				r.Get("/range", trackingHandler.GetRange)
				r.Get("/patterns", trackingHandler.GetPatterns)
				r.Get("/thresholds", trackingHandler.GetThresholds)
				r.Get("/trend", trackingHandler.GetTrend)
				r.Get("/score", trackingHandler.GetScore)
			})

			// Journal
			r.Route("/journal", func(r chi.Router) {
				r.Use(middleware.RateLimitByUser(middleware.AIRateLimit))
				r.Get("/", journalHandler.ListEntries)
				r.Post("/", journalHandler.CreateEntry)
				r.Route("/{entryId}", func(r chi.Router) {
					r.Get("/", journalHandler.GetEntry)
					r.Delete("/", journalHandler.DeleteEntry)
				})
			})

			// Copilot briefing
			r.With(middleware.RateLimitByUser(middleware.AIRateLimit)).
				Get("/copilot/briefing", copilotHandler.DailyBriefing)
		})

		// Admin endpoints (authenticated)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFlags)
				r.Put("/", featureFlagsHandler.UpsertFlag)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
