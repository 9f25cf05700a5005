package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/auth"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/cache"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/config"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/detector"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/oddsapi"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/retry"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/warmer"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
)

func main() {
	fmt.Println("=== Fortuna Odds Scanner v0 ===")

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err == nil {
		fmt.Println("✓ Loaded .env")
	}

	cfg := config.LoadConfig()
	setupLogger(cfg.Log)

	if cfg.Warmer.Spec != "" {
		if err := warmer.ValidateSpec(cfg.Warmer.Spec); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.UsingDummyOddsAPIKey() {
		log.Warn().Msg("ODDS_API_KEY is not configured; using dummy key")
	}

	// Upstream client
	client := oddsapi.NewClient(
		cfg.OddsAPI.BaseURL,
		cfg.OddsAPI.APIKey,
		cfg.OddsAPI.Timeout,
		retry.NewRetryPolicy(cfg.OddsAPI.MaxAttempts, cfg.OddsAPI.RetryDelay),
	)

	// Cache and nonce store: Redis when configured, memory otherwise
	var (
		oddsCache   contracts.Cache
		nonces      contracts.NonceStore
		pinger      handlers.Pinger
		redisClient *redis.Client
	)

	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = connectRedis(cfg.Redis.URL)
		if err != nil {
			fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Redis")

		redisCache := cache.NewRedisCache(redisClient, cache.DefaultKeyPrefix+"odds:", cfg.Cache.TTL)
		oddsCache = redisCache
		nonces = auth.NewRedisNonceStore(redisClient, cfg.Auth.NonceWindow)
		pinger = redisCache
	} else {
		oddsCache = cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		nonces = auth.NewMemoryNonceStore(cfg.Auth.NonceMaxEntries, cfg.Auth.NonceWindow)
		fmt.Println("✓ Using in-memory cache")
	}

	source := oddsapi.NewCachedSource(client, oddsCache, cfg.Cache.TTL)
	engine := detector.NewEngine(source)

	// Initialize handlers
	handler := handlers.NewHandler(engine, source, handlers.Options{
		Scan:  cfg.Scan,
		Redis: pinger,
	})

	if cfg.Auth.HMACSecret == "" {
		log.Warn().Msg("HMAC_SECRET is not set; /api/v1/secure routes will reject every request")
	}

	router := newRouter(routerDeps{
		handler:     handler,
		apiKey:      auth.NewAPIKeyAuth(cfg.Auth.APIKey, cfg.IsProduction(), "/api/v1/health"),
		hmac:        auth.NewHMACAuth(cfg.Auth.HMACSecret, cfg.Auth.NonceWindow, nonces),
		corsOrigins: cfg.Server.CORSOrigins,
	})

	// Cache warmer
	baseCtx, stopWarm := context.WithCancel(context.Background())

	var cacheWarmer *warmer.Warmer
	if cfg.Warmer.Spec != "" {
		cacheWarmer = warmer.New(baseCtx, source, cfg.Warmer.Sports, cfg.Warmer.Markets, cfg.Warmer.Regions)
		if err := cacheWarmer.Start(cfg.Warmer.Spec); err != nil {
			log.Error().Err(err).Msg("cache warmer disabled")
			cacheWarmer = nil
		} else {
			fmt.Printf("✓ Cache warmer scheduled (%s)\n", cfg.Warmer.Spec)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Odds Scanner listening on %s\n", cfg.Server.Addr)
		fmt.Println("\nEndpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /api/v1/health")
		fmt.Println("    GET  /api/v1/odds")
		fmt.Println("    GET  /api/v1/scan")
		fmt.Println("    GET  /api/v1/ev-full")
		fmt.Println("    GET  /api/v1/bonus")
		fmt.Println("    POST /api/v1/math/{clv,devig,arb,ev,quick-ev,parlay}")
		fmt.Println("    GET  /api/v1/secure/scan")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("❌ Server error: %v\n", err)
			exitCode = 1
		}

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
		cancel()
	}

	stopWarm()
	if cacheWarmer != nil {
		cacheWarmer.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			fmt.Printf("⚠️  Redis close failed: %v\n", err)
		}
	}

	fmt.Println("✓ Shutdown complete")
	os.Exit(exitCode)
}

// connectRedis opens a Redis client and verifies the connection
func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// setupLogger configures the global zerolog logger
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "odds-scanner").Logger()
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
