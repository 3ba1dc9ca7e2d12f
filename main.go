package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"feedback-relay/internal/config"
	"feedback-relay/internal/handler"
	"feedback-relay/internal/middleware"
	"feedback-relay/internal/repository"
	"feedback-relay/internal/service"
	"feedback-relay/internal/tracker"
)

// Loads the repo mapping, sets up HTTP handlers, and starts the HTTP
// server.
func main() {
	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.GetLogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("2006-01-02 15:04:05"))
			}
			return a
		},
	})))

	slog.Info("Feedback relay starting", "version", "0.1.0")

	// Load the repo id to tracker mapping; a missing or malformed file
	// is fatal.
	repos, err := config.LoadRepos(cfg.ReposFile)
	if err != nil {
		slog.Error("Failed to load repos configuration", "error", err, "path", cfg.ReposFile)
		panic(err)
	}

	// Log configuration (sanitized)
	slog.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"repos", len(repos),
		"submission_log_enabled", cfg.RedisURL != "",
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Initialize the optional Redis-backed submission log
	var rdb *redis.Client
	var submissions repository.SubmissionLog
	if cfg.RedisURL != "" {
		slog.Info("Initializing Redis connection...")
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to parse Redis URL", "error", err)
			panic(err) // Exit if Redis URL is invalid
		}
		rdb = redis.NewClient(opt)
		submissions = repository.NewRedisSubmissionLog(rdb)
	}

	// Initialize service layer dependencies
	slog.Debug("Initializing service layer dependencies")
	factory := tracker.NewFactory()
	feedbackService := service.NewFeedbackService(repos, factory, submissions)
	slog.Info("Service layer dependencies initialized successfully")

	// Initialize handler layer
	responseWriter := handler.NewResponseWriter()
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, responseWriter)
	healthHandler := handler.NewHealthHandler()

	// Create HTTP router with middleware
	mux := http.NewServeMux()

	// Health endpoints - probes with security headers only
	healthWithSecurity := middleware.SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		healthHandler.HandleHealth(w, r)
	}))
	readyWithSecurity := middleware.SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		healthHandler.HandleReady(w, r, rdb, ctx)
	}))

	mux.Handle("/health", healthWithSecurity)
	mux.Handle("/ready", readyWithSecurity)

	// Static assets for the feedback widget
	assets := middleware.SecurityHeadersMiddleware()(
		middleware.CORSMiddleware()(
			http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))),
		),
	)
	mux.Handle("/assets/", assets)

	// Feedback endpoint with CORS, logging, and security middleware
	feedbackEndpoint := middleware.SecurityHeadersMiddleware()(
		middleware.CORSMiddleware()(
			middleware.LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				feedbackHandler.HandleIndex(w, r, ctx)
			})),
		),
	)
	mux.Handle("/", feedbackEndpoint)

	// Start the HTTP server (blocking call)
	serverAddr := ":" + cfg.Port
	slog.Info("Server listening", "address", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		slog.Error("HTTP server error", "error", err)
	}
}
