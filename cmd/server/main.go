package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutormatch/search-service/internal/config"
	"tutormatch/search-service/internal/handler"
	"tutormatch/search-service/internal/repository"
	"tutormatch/search-service/internal/search"
	"tutormatch/search-service/internal/sweeper"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("tutormatch search service starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	gin.SetMode(cfg.Server.GinMode)

	dsn := cfg.GetPostgreSQLDSN()
	if err := repository.Migrate(cfg.PostgreSQL.MigrationsPath, dsn); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	store, err := repository.NewPostgresStore(dsn, cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer store.Close()
	logger.Info("connected to PostgreSQL")

	svc := search.NewService(store, search.Config{
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
		DefaultRadiusM: cfg.Search.DefaultRadiusM,
		NearbyCap:      cfg.Search.NearbyCap,
		RequestTimeout: cfg.Search.RequestTimeout,
	}, logger)

	searchHandler := handler.NewSearchHandler(svc, logger, cfg.Server.Debug)

	var sweep *sweeper.Sweeper
	if cfg.Sweep.Enabled {
		sweep = sweeper.New(store, cfg.Sweep.Schedule, logger)
		if err := sweep.Start(); err != nil {
			logger.Fatal("sweeper start failed", zap.Error(err))
		}
		logger.Info("job expiry sweeper started", zap.String("schedule", cfg.Sweep.Schedule))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(logger))
	router.Use(handler.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tutormatch-search",
			"version": Version,
		})
	})

	searchHandler.Register(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if sweep != nil {
		sweep.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
