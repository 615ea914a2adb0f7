package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unionmart/lucky-wheel-service/internal/cache"
	"github.com/unionmart/lucky-wheel-service/internal/config"
	"github.com/unionmart/lucky-wheel-service/internal/handler"
	"github.com/unionmart/lucky-wheel-service/internal/repository"
	"github.com/unionmart/lucky-wheel-service/internal/service"
	appvalidator "github.com/unionmart/lucky-wheel-service/internal/validator"
	"github.com/unionmart/lucky-wheel-service/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Apply schema migrations
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Optional Redis-backed wheel snapshot cache. An empty REDIS_ADDR leaves
	// the cache nil and every read goes straight to Postgres.
	var wheelCache service.WheelCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, continuing without wheel cache")
		} else {
			wheelCache = cache.NewWheelCache(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			log.Info().Str("addr", cfg.Redis.Addr).Int("ttl_seconds", cfg.Redis.TTLSeconds).Msg("wheel snapshot cache enabled")
		}
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "UnionMart Lucky Wheel Service",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with custom rules
	validate := appvalidator.New()

	// Initialize components (layered architecture)
	userRepo := repository.NewUserRepository(pool)
	wheelRepo := repository.NewWheelRepository(pool)
	spinLogRepo := repository.NewSpinLogRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)

	spinService := service.NewSpinService(pool, userRepo, wheelRepo, spinLogRepo, voucherRepo, wheelCache, cfg.Wheel)
	wheelService := service.NewWheelService(pool, wheelRepo, spinLogRepo, voucherRepo, wheelCache)
	userService := service.NewUserService(pool, userRepo, voucherRepo)

	spinHandler := handler.NewSpinHandler(spinService, validate)
	wheelHandler := handler.NewWheelHandler(wheelService, validate)
	userHandler := handler.NewUserHandler(userService, validate)
	voucherHandler := handler.NewVoucherHandler(wheelService, validate)

	// Health handler
	healthHandler := handler.NewHealthHandler(pool)
	app.Get("/api/health", healthHandler.Check)

	// Lucky wheel routes
	app.Get("/api/lucky-wheel", wheelHandler.GetWheel)
	app.Put("/api/lucky-wheel/config", wheelHandler.UpdateConfig)
	app.Post("/api/lucky-wheel/spin", spinHandler.Spin)
	app.Post("/api/lucky-wheel/spin/retry", spinHandler.RetryReward)
	app.Post("/api/lucky-wheel/spin-log", wheelHandler.AppendSpinLog)
	app.Get("/api/lucky-wheel/voucher-templates/:voucherId", wheelHandler.GetVoucherTemplate)

	// User routes
	app.Get("/api/user", userHandler.GetUser)
	app.Put("/api/user", userHandler.UpdateUser)
	app.Post("/api/user/add-voucher", userHandler.AddVoucher)
	app.Post("/api/user/redeem-voucher", userHandler.RedeemVoucher)

	// Voucher catalog routes
	app.Get("/api/vouchers", voucherHandler.ListVouchers)
	app.Post("/api/vouchers", voucherHandler.CreateVoucher)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
