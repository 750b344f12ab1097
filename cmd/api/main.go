package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/HrustakV/kratky-link/internal/config"
	"github.com/HrustakV/kratky-link/internal/handler"
	"github.com/HrustakV/kratky-link/internal/logger"
	"github.com/HrustakV/kratky-link/internal/middleware"
	"github.com/HrustakV/kratky-link/internal/repository/postgres"
	redisrepo "github.com/HrustakV/kratky-link/internal/repository/redis"
	"github.com/HrustakV/kratky-link/internal/service"
	"github.com/HrustakV/kratky-link/pkg/generator"
	"github.com/HrustakV/kratky-link/pkg/geo"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logg := logger.Get()
	logg.Info("Starting kratky.link shortener",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		logg.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		logg.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := setupRedis(cfg)
	if err != nil {
		logg.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	var geoResolver *geo.Resolver
	if cfg.GeoIP.Path != "" {
		geoResolver, err = geo.Open(cfg.GeoIP.Path)
		if err != nil {
			logg.Warn("GeoIP database unavailable, country enrichment disabled", "error", err)
		} else {
			defer geoResolver.Close()
		}
	}

	linkRepo := postgres.NewLinkRepository(dbPool)
	clickRepo := postgres.NewClickRepository(dbPool)
	linkCache := redisrepo.NewLinkCache(redisClient)

	recorder := service.NewClickRecorder(clickRepo, linkRepo, geoResolver,
		cfg.Recorder.QueueSize, cfg.Recorder.Workers)
	recorder.Start()

	shortener := service.NewShortenerService(
		linkRepo,
		clickRepo,
		linkCache,
		generator.New(cfg.Shortener.CodeLength),
		recorder,
		cfg.Shortener.LoopHosts,
	)

	shortenerHandler := handler.NewShortenerHandler(shortener, cfg.Server.BaseURL)
	statsHandler := handler.NewStatsHandler(shortener)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient)

	router := setupRouter(shortenerHandler, statsHandler, healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg, recorder, logg)
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redisClient, nil
}

func setupRouter(
	shortenerHandler *handler.ShortenerHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)

	api := router.Group("/api")
	{
		api.POST("/shorten", shortenerHandler.Shorten)
		api.GET("/recent", statsHandler.GetRecentLinks)
		api.GET("/stats", statsHandler.GetStats)
	}

	router.GET("/:code", shortenerHandler.Redirect)

	return router
}

func gracefulShutdown(srv *http.Server, cfg *config.Config, recorder *service.ClickRecorder, logg *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logg.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Forced shutdown", "error", err)
	}

	// The server is drained, so no new clicks can arrive; flush the queue.
	recorder.Close()

	logg.Info("Graceful shutdown completed")
}
