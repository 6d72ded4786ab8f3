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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-records/api/swagger"
	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-records/internal/middleware"
	"github.com/noah-isme/sma-records/internal/repository"
	"github.com/noah-isme/sma-records/internal/service"
	"github.com/noah-isme/sma-records/pkg/config"
	"github.com/noah-isme/sma-records/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-records/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-records/pkg/middleware/requestid"
)

// @title School Records API
// @version 1.0.0
// @description Students, courses, attendance, grades, events and reports
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

	startCtx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	backend, err := openBackend(startCtx, cfg, logr)
	if err != nil {
		cancel()
		logr.Fatal("failed to open store backend", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	repo := repository.NewCollectionRepository(backend, cfg.Store.KeyPrefix)
	defer repo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	store := service.NewStore(repo, nil, metrics, logr, service.StoreOptions{ActivityLimit: cfg.Activity.Limit})
	if err := store.Load(startCtx); err != nil {
		cancel()
		logr.Fatal("failed to load records", zap.Error(err))
	}
	if cfg.Seed.Enabled {
		if _, err := store.SeedSampleData(startCtx); err != nil {
			cancel()
			logr.Fatal("failed to seed sample data", zap.Error(err))
		}
	}
	cancel()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	system := handler.NewSystemHandler(metrics, store, cfg.Store.Driver)
	r.GET("/health", system.Health)
	r.GET("/metrics", system.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	reports := service.NewReportService(store)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:   handler.NewStudentHandler(service.NewStudentService(store)),
		Courses:    handler.NewCourseHandler(service.NewCourseService(store)),
		Attendance: handler.NewAttendanceHandler(service.NewAttendanceService(store)),
		Grades:     handler.NewGradeHandler(service.NewGradeService(store)),
		Events:     handler.NewEventHandler(service.NewEventService(store)),
		Activities: handler.NewActivityHandler(service.NewActivityService(store)),
		Analytics: handler.NewAnalyticsHandler(service.NewAnalyticsService(store, analytics.DashboardOptions{
			TopStudents:      cfg.Dashboard.TopStudents,
			UpcomingDays:     cfg.Dashboard.UpcomingDays,
			RecentActivities: cfg.Dashboard.RecentActivities,
		})),
		Reports:  handler.NewReportHandler(reports, service.NewExportService(reports, logr)),
		Transfer: handler.NewTransferHandler(service.NewTransferService(store)),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down server")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}
