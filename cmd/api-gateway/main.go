package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/institute-portal-api/api/swagger"
	"github.com/campushq/institute-portal-api/internal/handler"
	"github.com/campushq/institute-portal-api/internal/repository"
	"github.com/campushq/institute-portal-api/internal/service"
	"github.com/campushq/institute-portal-api/pkg/cache"
	"github.com/campushq/institute-portal-api/pkg/config"
	"github.com/campushq/institute-portal-api/pkg/database"
	"github.com/campushq/institute-portal-api/pkg/logger"
	corsmiddleware "github.com/campushq/institute-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/institute-portal-api/pkg/middleware/requestid"
	"github.com/campushq/institute-portal-api/pkg/storage"
)

// @title Institute Portal API
// @version 1.0.0
// @description Institute management portal core
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without document cache", "error", err)
		redisClient = nil
	}

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	instituteRepo := repository.NewInstituteRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	if err := instituteRepo.EnsureSchema(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to ensure database schema", "error", err)
	}

	metrics := service.NewMetricsService()

	institutes := service.NewInstituteService(instituteRepo, cacheRepo, validate, logr, cfg.Institutes.CacheTTL).WithMetrics(metrics)
	timetables := service.NewTimetableService(institutes, validate, logr)
	conflicts := service.NewConflictService(institutes, logr)
	workloads := service.NewWorkloadService(institutes, logr)
	availability := service.NewAvailabilityService(institutes, logr)
	bookings := service.NewBookingService(institutes, validate, logr)
	auth := service.NewAuthService(institutes, cfg.JWT, validate, logr)
	exports := service.NewExportService(institutes, conflicts, workloads, files, signer, service.ExportQueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	}, logr).WithMetrics(metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exports.Start(ctx)
	defer exports.Stop()

	if cfg.Seed.Enabled {
		seeder := service.NewSeedService(instituteRepo, logr)
		if err := seeder.Run(ctx); err != nil {
			logr.Sugar().Fatalw("failed to seed sample institutes", "error", err)
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, auth, metrics, handler.Handlers{
		Auth:       handler.NewAuthHandler(auth),
		Institutes: handler.NewInstituteHandler(institutes),
		Timetables: handler.NewTimetableHandler(timetables, conflicts),
		Bookings:   handler.NewBookingHandler(bookings, availability),
		Workload:   handler.NewWorkloadHandler(workloads),
		Exports:    handler.NewExportHandler(exports),
		Metrics:    handler.NewMetricsHandler(metrics),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
