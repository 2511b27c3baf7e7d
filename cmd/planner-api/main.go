package main

import (
	"context"
	"errors"
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

	_ "github.com/noah-isme/uni-planner-api/api/swagger"
	"github.com/noah-isme/uni-planner-api/internal/handler"
	"github.com/noah-isme/uni-planner-api/internal/middleware"
	"github.com/noah-isme/uni-planner-api/internal/models"
	"github.com/noah-isme/uni-planner-api/internal/repository"
	"github.com/noah-isme/uni-planner-api/internal/service"
	"github.com/noah-isme/uni-planner-api/pkg/cache"
	"github.com/noah-isme/uni-planner-api/pkg/config"
	"github.com/noah-isme/uni-planner-api/pkg/database"
	"github.com/noah-isme/uni-planner-api/pkg/jobs"
	"github.com/noah-isme/uni-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/uni-planner-api/pkg/sharelink"
)

// @title Uni Planner API
// @version 1.0.0
// @description Class-schedule planning service: catalog mirror, conflict-free combination generator, saved selections, and timetable exports.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsSvc := service.NewMetricsService()

	catalogSvc := service.NewCatalogService(courseRepo, cacheRepo, metricsSvc, validate, logr, service.CatalogConfig{
		BaseURL:  cfg.Catalog.BaseURL,
		Timeout:  cfg.Catalog.Timeout,
		CacheTTL: cfg.Planner.CacheTTL,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncQueue := jobs.NewQueue("catalog-sync", catalogSvc.HandleSyncJob, jobs.QueueConfig{
		Workers:    cfg.Catalog.SyncWorkers,
		BufferSize: cfg.Catalog.SyncBuffer,
		Logger:     logr,
	})
	syncQueue.Start(rootCtx)
	defer syncQueue.Stop()
	catalogSvc.SetQueue(syncQueue)

	signer := sharelink.New(cfg.Share.Secret, cfg.Share.TTL)
	plannerSvc := service.NewPlannerService(catalogSvc, metricsSvc, signer, validate, logr, service.PlannerConfig{
		MaxResults: cfg.Planner.MaxResults,
		PlanTTL:    cfg.Planner.PlanTTL,
	})
	exportSvc := service.NewExportService(plannerSvc, logr)
	selectionSvc := service.NewSelectionService(selectionRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "uni-planner-api",
	})

	authHandler := handler.NewAuthHandler(authSvc)
	plannerHandler := handler.NewPlannerHandler(plannerSvc, exportSvc)
	courseHandler := handler.NewCourseHandler(catalogSvc)
	selectionHandler := handler.NewSelectionHandler(selectionSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:code", courseHandler.Get)
			courses.POST("/sync", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdvisor), courseHandler.Sync)
		}

		plans := v1.Group("/plans")
		{
			plans.POST("/generate", plannerHandler.Generate)
			plans.GET("/shared/:token", middleware.OptionalJWT(authSvc), plannerHandler.Shared)
			plans.GET("/:id", plannerHandler.Get)
			plans.POST("/:id/results/:resultId/share", plannerHandler.Share)
			plans.GET("/:id/results/:resultId/export", plannerHandler.Export)
		}

		selections := v1.Group("/selections", middleware.JWT(authSvc))
		{
			selections.POST("", selectionHandler.Save)
			selections.GET("", selectionHandler.List)
			selections.GET("/:id", selectionHandler.Get)
			selections.DELETE("/:id", selectionHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
