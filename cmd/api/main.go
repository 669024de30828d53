package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"resinstore/internal/cache"
	"resinstore/internal/catalog"
	"resinstore/internal/config"
	"resinstore/internal/database"
	"resinstore/internal/handler"
	"resinstore/internal/model"
	"resinstore/internal/notify"
	"resinstore/internal/payment"
	"resinstore/internal/repository"
	"resinstore/internal/router"
	"resinstore/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("payment_provider", cfg.Payment.Provider).Msg("starting resinstore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to prepare database schema: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Redis backs the product cache and the checkout rate limiter
	var redisClient *redis.Client
	productCache := cache.NewNoopProductCache()
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redisClient.Close()
		productCache = cache.NewRedisProductCache(redisClient, cfg.Redis.CacheTTL, logger)
	} else {
		logger.Info().Msg("redis disabled, product cache and rate limiting are off")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, productCache, logger)
	checkoutService := service.NewCheckoutService(orderRepo, newNotifier(cfg.Email, logger), logger)
	adminService := service.NewAdminService(orderRepo, logger)
	paymentService := service.NewPaymentService(newConfirmation(cfg.Payment, logger), orderRepo, logger)

	// The catalogue is seeded before the server accepts requests
	source, err := catalogueSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalogue source: %w", err)
	}
	if _, err := productService.SeedIfEmpty(ctx, source); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(checkoutService, logger),
		Admin:   handler.NewAdminHandler(adminService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
	}

	opts := router.Options{
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Redis.RateLimit,
		RateWindow:     cfg.Redis.RateLimitWindow,
		TrustProxy:     cfg.Redis.RateLimitTrustProxy,
	}
	if redisClient != nil {
		opts.RateLimiter = redisClient
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(handlers, opts, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// catalogueSource picks where the seed catalogue comes from: configured seed files, read
// from S3 with a local fallback, or the built-in starter catalogue.
func catalogueSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.CatalogueSource, error) {
	if len(cfg.Catalog.SeedFiles) == 0 {
		logger.Info().Msg("no seed files configured, using starter catalogue")
		starter := catalog.NewStarterLoader()
		return func(ctx context.Context) ([]model.Product, error) {
			return starter.Load(ctx, "")
		}, nil
	}

	fileLoader := catalog.NewFileLoader(logger)
	var s3Loader catalog.Loader

	if cfg.S3.Enabled {
		var err error
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	paths := cfg.Catalog.SeedFiles

	return func(ctx context.Context) ([]model.Product, error) {
		return catalog.LoadAll(ctx, loader, paths, logger)
	}, nil
}

func newConfirmation(cfg config.PaymentConfig, logger zerolog.Logger) payment.Confirmation {
	switch cfg.Provider {
	case config.PaymentProviderStripe:
		return payment.NewStripeConfirmation(cfg.StripeSecretKey, cfg.Currency, logger)
	default:
		return payment.NewWhatsAppConfirmation(cfg.WhatsAppNumber, cfg.CurrencySymbol, logger)
	}
}

func newNotifier(cfg config.EmailConfig, logger zerolog.Logger) notify.OrderNotifier {
	if !cfg.Enabled {
		return notify.NoopNotifier{}
	}
	return notify.NewPostmarkNotifier(cfg.ServerToken, cfg.From, logger)
}
