package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-standing-api/api/swagger"
	"github.com/noah-isme/sma-standing-api/internal/handler"
	"github.com/noah-isme/sma-standing-api/internal/middleware"
	"github.com/noah-isme/sma-standing-api/internal/repository"
	"github.com/noah-isme/sma-standing-api/internal/service"
	"github.com/noah-isme/sma-standing-api/pkg/cache"
	"github.com/noah-isme/sma-standing-api/pkg/config"
	"github.com/noah-isme/sma-standing-api/pkg/database"
	"github.com/noah-isme/sma-standing-api/pkg/grading"
	"github.com/noah-isme/sma-standing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-standing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-standing-api/pkg/middleware/requestid"
)

// @title SMA Standing API
// @version 1.0.0
// @description Academic standing: weighted course grades, trends, GPA and attendance
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(start())
}

// start owns the deferred cleanups so they run before the process exits.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logr)
}

// serve runs the API and maps its outcome to a process exit code.
func serve(ctx context.Context, cfg *config.Config, logr *zap.Logger) int {
	if err := run(ctx, cfg, logr); err != nil {
		logr.Error("server failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Standing.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, standing cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Standing.CacheTTL, logr, cfg.Standing.CacheEnabled && redisClient != nil)

	engine := grading.NewEngine(
		grading.WithTrendWindow(cfg.Standing.TrendWindow),
		grading.WithTrendDeadband(cfg.Standing.TrendDeadband),
		grading.WithCreditWeighting(cfg.Standing.CreditWeighted),
	)

	standingSvc := service.NewStandingService(service.StandingServiceParams{
		Entries:    repository.NewGradeEntryRepository(db),
		Weights:    repository.NewCategoryWeightRepository(db),
		Courses:    repository.NewCourseRepository(db),
		Attendance: repository.NewAttendanceRepository(db),
		Engine:     engine,
		Cache:      cacheSvc,
		Metrics:    metrics,
		Logger:     logr,
		Config:     service.StandingServiceConfig{CacheTTL: cfg.Standing.CacheTTL},
	})

	refresher := service.NewStandingRefresher(standingSvc, cacheSvc, metrics, logr, service.StandingRefresherConfig{
		Workers:    cfg.Standing.RefreshWorkers,
		MaxRetries: cfg.Standing.RefreshRetries,
		CacheTTL:   cfg.Standing.CacheTTL,
	})
	refresher.Start(ctx)
	defer refresher.Stop()
	standingSvc.UseRefresher(refresher)

	reportCards := service.NewReportCardService(standingSvc, nil, nil, logr)
	tokens := service.NewTokenService(cfg.JWT.Secret)

	router := newRouter(cfg, logr, db, metrics)
	handler.Register(
		router.Group(cfg.APIPrefix),
		middleware.JWT(tokens),
		handler.NewStandingHandler(standingSvc, logr),
		handler.NewReportCardHandler(reportCards),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, metrics *service.MetricsService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		swagger.BasePath = cfg.APIPrefix
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
