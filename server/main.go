package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"busbenin/api/routes"
	"busbenin/internal/notifications"
	"busbenin/internal/reservations"
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/database"
	"busbenin/pkg/cache"
	"busbenin/pkg/fedapay"
	"busbenin/pkg/logger"
	"busbenin/pkg/ratelimit"
	"busbenin/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Bus Benin API
// @version 1.0
// @description Bus ticket booking for Benin with FedaPay mobile money payments.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	appLogger := logger.New(cfg.LogLevel)

	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis)
	} else {
		cacheService = cache.NewMemory()
	}

	gateway := fedapay.NewClient(fedapay.Config{
		SecretKey:   cfg.FedaPay.SecretKey,
		Environment: cfg.FedaPay.Environment,
		BaseURL:     cfg.FedaPay.BaseURL,
		CheckoutURL: cfg.FedaPay.CheckoutURL,
		Timeout:     cfg.FedaPay.Timeout,
		Logger:      appLogger.Logger,
	})
	if cfg.FedaPay.SecretKey == "" {
		appLogger.Warn("FEDAPAY_SECRET_KEY is empty: payment initiation will fail")
	}

	var uploader storage.Uploader
	if cfg.Cloudinary.URL != "" {
		cld, err := storage.NewCloudinary(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			appLogger.Error("Failed to initialize Cloudinary, logo uploads disabled", slog.Any("error", err))
		} else {
			uploader = cld
		}
	}

	publisher, err := notifications.NewPublisher(cfg.Broker, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize event publisher, falling back to log publisher", slog.Any("error", err))
		publisher = notifications.NewLogPublisher(appLogger)
	}

	consumer := startNotificationConsumer(cfg, appLogger)

	services := routes.BuildServices(routes.Dependencies{
		Config:    cfg,
		SQL:       db.SQL,
		Cache:     cacheService,
		Logger:    appLogger,
		Gateway:   gateway,
		Publisher: publisher,
		Uploader:  uploader,
	})

	jobCtx, jobCancel := context.WithCancel(context.Background())
	defer jobCancel()

	jobs := reservations.NewJobProcessor(services.Reservations, reservations.JobConfigFrom(cfg), appLogger)
	if err := jobs.Start(jobCtx); err != nil {
		appLogger.Error("Failed to start background jobs", slog.Any("error", err))
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:             cfg.RateLimit.Enabled,
			WindowDuration:      cfg.RateLimit.WindowDuration,
			DefaultRequests:     cfg.RateLimit.DefaultRequests,
			PublicRequests:      cfg.RateLimit.PublicRequests,
			AuthRequests:        cfg.RateLimit.AuthRequests,
			ReservationRequests: cfg.RateLimit.ReservationRequests,
			PaymentRequests:     cfg.RateLimit.PaymentRequests,
			AdminRequests:       cfg.RateLimit.AdminRequests,
			AnalyticsRequests:   cfg.RateLimit.AnalyticsRequests,
			WebhookRequests:     cfg.RateLimit.WebhookRequests,
			HealthRequests:      cfg.RateLimit.HealthRequests,
			WhitelistedIPs:      cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(cfg, db, services, jobs, rateLimiter, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_status", fmt.Sprintf("http://localhost:%s%s/status", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("fedapay_env", cfg.FedaPay.Environment),
			slog.String("broker", cfg.Broker.Kind),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	jobs.Stop(ctx)
	jobCancel()

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
		}
	}
	if err := publisher.Close(); err != nil {
		appLogger.Error("Error closing event publisher", slog.Any("error", err))
	}
	if err := db.Close(); err != nil {
		appLogger.Error("Error closing databases", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// startNotificationConsumer runs the email dispatcher on the configured broker.
// Returns nil when no broker is configured.
func startNotificationConsumer(cfg *config.Config, appLogger *logger.Logger) notifications.Consumer {
	var email notifications.EmailService = notifications.NewLogEmailService(appLogger)
	if cfg.Email.Enabled {
		smtpService, err := notifications.NewSMTPEmailService(notifications.SMTPConfigFrom(cfg.Email), appLogger)
		if err != nil {
			appLogger.Error("Invalid SMTP configuration, emails will only be logged", slog.Any("error", err))
		} else {
			email = smtpService
		}
	}

	dispatcher := notifications.NewDispatcher(email, notifications.DefaultDispatcherConfig(), appLogger)
	consumer, err := notifications.NewConsumer(cfg.Broker, dispatcher, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
		return nil
	}
	if consumer == nil {
		return nil
	}

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			appLogger.Error("Notification consumer stopped", slog.Any("error", err))
		}
	}()
	appLogger.Info("Notification consumer started", slog.String("broker", cfg.Broker.Kind))
	return consumer
}

func setupRouter(cfg *config.Config, db *database.DB, services *routes.Services, jobs routes.JobStatus,
	rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-FEDAPAY-SIGNATURE"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter, appLogger))
	}

	appRouter := routes.NewRouter(cfg, db, services, appLogger, jobs)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
