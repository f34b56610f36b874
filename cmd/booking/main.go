package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wheelio/bike-rental/internal/fleet"
	"github.com/wheelio/bike-rental/internal/invoices"
	"github.com/wheelio/bike-rental/internal/payments"
	"github.com/wheelio/bike-rental/internal/rentals"
	"github.com/wheelio/bike-rental/pkg/common"
	"github.com/wheelio/bike-rental/pkg/config"
	"github.com/wheelio/bike-rental/pkg/database"
	"github.com/wheelio/bike-rental/pkg/logger"
	"github.com/wheelio/bike-rental/pkg/middleware"
	"github.com/wheelio/bike-rental/pkg/redis"
)

const (
	serviceName    = "booking"
	serviceVersion = "1.0.0"
)

// allowedOrigins parses the comma-separated CORS_ORIGINS value, dropping
// empty entries left by stray commas
func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
		}); err != nil {
			logger.Warn("Sentry initialization failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Connected to PostgreSQL database")

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Wire repositories and services
	fleetRepo := fleet.NewRepository(pool)
	fleetHandler := fleet.NewAdminHandler(fleetRepo)

	rentalRepo := rentals.NewRepository(pool)
	quoteCache := rentals.NewQuoteCache(redisClient, cfg.Billing.QuoteCacheTTLSeconds)
	rentalService := rentals.NewService(rentalRepo, fleetRepo, quoteCache)
	rentalHandler := rentals.NewHandler(rentalService)

	var gateway payments.Gateway
	if cfg.Stripe.Enabled {
		gateway = payments.NewStripeGateway(&cfg.Stripe)
	} else {
		gateway = payments.NewManualGateway()
		logger.Warn("Stripe disabled, recording payments through the manual gateway")
	}
	paymentService := payments.NewService(rentalService, gateway, cfg.Billing.QuoteEpsilon, cfg.Stripe.Currency)
	paymentHandler := payments.NewHandler(paymentService)

	invoiceService := invoices.NewService(rentalRepo)
	invoiceHandler := invoices.NewHandler(invoiceService)

	// Set up Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.Server.CORSOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.Recovery())
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// Health check and metrics (no auth required)
	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, serviceVersion, map[string]func() error{
		"postgres": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		},
		"redis": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtSecret := cfg.JWT.Secret

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		rentalHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)
		invoiceHandler.RegisterRoutes(api)
	}

	// Admin routes (fleet management and settlement)
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole("admin"))
	{
		fleetHandler.RegisterRoutes(admin)
		rentalHandler.RegisterAdminRoutes(admin)
	}

	addr := ":" + cfg.Server.Port
	logger.Info("Booking service starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
