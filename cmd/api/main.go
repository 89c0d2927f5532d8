// Package main provides the entrypoint for the Yachai API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api"
	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
	"github.com/alessandro-lagamba/yachai-server/internal/copilot"
	"github.com/alessandro-lagamba/yachai-server/internal/database"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/insight"
	"github.com/alessandro-lagamba/yachai-server/internal/journal"
	"github.com/alessandro-lagamba/yachai-server/internal/provider/resilience"
	"github.com/alessandro-lagamba/yachai-server/internal/telemetry"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "yachai-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Yachai API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize user service
	userService := user.NewService(user.NewPostgresRepository(pool))
	log.Info().Msg("user service initialized")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Initialize Supabase verifier (may be nil if not configured)
	var verifier *auth.SupabaseVerifier
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseSecret := os.Getenv("SUPABASE_JWT_SECRET")
	if supabaseURL != "" && supabaseSecret != "" {
		verifier = auth.NewSupabaseVerifier(auth.SupabaseVerifierConfig{
			JWTSecret:  supabaseSecret,
			ProjectURL: supabaseURL,
		})
		log.Info().Msg("Supabase verifier initialized")
	} else {
		log.Warn().Msg("Supabase not configured - auth endpoints will fail")
	}

	authService := auth.NewService(auth.ServiceConfig{
		Verifier:      verifier,
		JWTService:    jwtService,
		RefreshRepo:   auth.NewPostgresRefreshTokenRepository(pool),
		Users:         userService,
		Logger:        log,
		DefaultLocale: "it-IT",
	})
	log.Info().Msg("auth service initialized")

	// Initialize feature flags service
	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewPostgresRepository(pool),
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize tracking service
	trackingService := tracking.NewService(tracking.ServiceConfig{
		Repository: tracking.NewPostgresRepository(pool),
		Profiles:   userService,
		Flags:      flagService,
		Logger:     log,
	})
	log.Info().Msg("tracking service initialized")

	// Initialize AI insight client (may be nil if not configured)
	var insightClient *insight.Client
	aiBaseURL := os.Getenv("AI_BASE_URL")
	aiAPIKey := os.Getenv("AI_API_KEY")
	if aiBaseURL != "" && aiAPIKey != "" {
		providerMetrics, pmErr := middleware.NewProviderMetrics()
		if pmErr != nil {
			log.Fatal().Err(pmErr).Msg("failed to initialize provider metrics")
		}

		insightClient = insight.NewClient(insight.ClientConfig{
			BaseURL: aiBaseURL,
			APIKey:  aiAPIKey,
			Model:   os.Getenv("AI_MODEL"),
			HTTP: resilience.NewClient(resilience.ClientConfig{
				Name:    "insight",
				Timeout: 30 * time.Second,
				Metrics: providerMetrics,
			}),
			Logger: log,
		})
		log.Info().Msg("insight client initialized")
	} else {
		log.Warn().Msg("AI provider not configured - reflections and coach messages disabled")
	}

	// Initialize journal service
	journalConfig := journal.ServiceConfig{
		Repository: journal.NewPostgresRepository(pool),
		Flags:      flagService,
		Logger:     log,
	}
	if insightClient != nil {
		journalConfig.Reflector = insightClient
	}
	journalService := journal.NewService(journalConfig)
	log.Info().Msg("journal service initialized")

	// Initialize copilot service
	copilotConfig := copilot.ServiceConfig{
		Tracking: trackingService,
		Users:    userService,
		Flags:    flagService,
		Logger:   log,
	}
	if insightClient != nil {
		copilotConfig.Chatter = insightClient
	}
	copilotService := copilot.NewService(copilotConfig)
	log.Info().Msg("copilot service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		Database:           pool,
		AuthService:        authService,
		UserService:        userService,
		TrackingService:    trackingService,
		JournalService:     journalService,
		CopilotService:     copilotService,
		FeatureFlagService: flagService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
