package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/target-saas/study-tracker-api/api/swagger"
	"github.com/target-saas/study-tracker-api/internal/handler"
	"github.com/target-saas/study-tracker-api/internal/middleware"
	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/repository"
	"github.com/target-saas/study-tracker-api/internal/service"
	"github.com/target-saas/study-tracker-api/pkg/cache"
	"github.com/target-saas/study-tracker-api/pkg/config"
	"github.com/target-saas/study-tracker-api/pkg/database"
	"github.com/target-saas/study-tracker-api/pkg/export"
	"github.com/target-saas/study-tracker-api/pkg/logger"
	corsmiddleware "github.com/target-saas/study-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/target-saas/study-tracker-api/pkg/middleware/requestid"
	"github.com/target-saas/study-tracker-api/pkg/storage"
)

// @title Study Tracker API
// @version 1.0.0
// @description Role-based study tracking with mentorships, plans and verifiable certificates
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	migrateCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := database.Migrate(migrateCtx, db, logr); err != nil {
		logr.Sugar().Fatalw("migrations failed", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		if cfg.Cache.Enabled {
			logr.Sugar().Fatalw("redis connection failed", "error", err)
		}
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("upload storage init failed", "error", err)
	}
	certStore, err := storage.NewLocalStorage(cfg.Certificates.Dir)
	if err != nil {
		logr.Sugar().Fatalw("certificate storage init failed", "error", err)
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	aggregateRepo := repository.NewAggregateRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	mentorshipRepo := repository.NewMentorshipRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	supportRepo := repository.NewSupportRepository(db)

	var cacheRepo service.AggregateCache
	if redisClient != nil {
		cacheRepo = repository.NewRedisCacheRepository(redisClient)
	}

	// Services.
	metrics := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, cfg.JWT, logr)
	aggregateService := service.NewAggregateService(aggregateRepo, cacheRepo, cfg.Cache, metrics, logr)
	sessionService := service.NewSessionService(sessionRepo, planRepo, mentorshipRepo, aggregateService, metrics, logr)
	planService := service.NewPlanService(planRepo, mentorshipRepo, logr)
	userService := service.NewUserService(userRepo, aggregateRepo, sessionRepo, cfg.Admin, logr)
	licenseService := service.NewLicenseService(licenseRepo, cfg.Admin, logr)
	certService := service.NewCertificateService(certRepo, userRepo, aggregateService, certStore, export.NewCertificateRenderer(), cfg.Certificates, metrics, logr)
	taskService := service.NewTaskService(taskRepo, mentorshipRepo, logr)
	mentorshipService := service.NewMentorshipService(mentorshipRepo, userRepo, logr)
	submissionService := service.NewSubmissionService(submissionRepo, uploadStore, cfg.Uploads, logr)
	supportService := service.NewSupportService(supportRepo, logr)
	assistantService := service.NewAssistantService(cfg.Assistant, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(userService, licenseService, supportService)
	sessionHandler := handler.NewSessionHandler(sessionService, uploadStore, cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedExtensions)
	planHandler := handler.NewPlanHandler(planService)
	aggregateHandler := handler.NewAggregateHandler(aggregateService)
	certHandler := handler.NewCertificateHandler(certService)
	taskHandler := handler.NewTaskHandler(taskService, uploadStore, cfg.Uploads.MaxFileSizeBytes, cfg.Uploads.AllowedExtensions)
	mentorshipHandler := handler.NewMentorshipHandler(mentorshipService, userService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	supportHandler := handler.NewSupportHandler(supportService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metrics.Handler())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public routes.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/verify/:code", certHandler.Verify)

	// Authenticated, approval not yet required.
	authed := api.Group("")
	authed.Use(middleware.JWT(cfg.JWT.Secret))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/logout", authHandler.Logout)
	authed.POST("/auth/change-password", authHandler.ChangePassword)
	authed.POST("/support", supportHandler.Send)

	// Approved accounts only.
	approved := authed.Group("")
	approved.Use(middleware.RequireApproved())

	students := approved.Group("")
	students.Use(middleware.RequireRoles(models.RoleStudent))
	students.POST("/sessions/start", sessionHandler.Start)
	students.POST("/sessions/stop", sessionHandler.Stop)
	students.POST("/sessions/log", sessionHandler.LogManual)
	students.GET("/sessions/active", sessionHandler.Active)
	students.GET("/sessions", sessionHandler.List)
	students.POST("/sessions/:id/validate", sessionHandler.Validate)
	students.GET("/plans", planHandler.ListMine)
	students.PATCH("/plans/:id/status", planHandler.UpdateStatus)
	students.GET("/stats/total-hours", aggregateHandler.TotalHours)
	students.GET("/stats/time-series", aggregateHandler.TimeSeries)
	students.POST("/certificates", certHandler.Generate)
	students.POST("/certificates/external", certHandler.RegisterExternal)
	students.GET("/certificates", certHandler.List)
	students.GET("/certificates/:id/download", certHandler.Download)
	students.GET("/tasks", taskHandler.ListMine)
	students.POST("/tasks/:id/complete", taskHandler.Complete)
	students.POST("/mentorships", mentorshipHandler.Request)
	students.GET("/mentorships", mentorshipHandler.ListMine)
	students.GET("/mentorships/teachers", mentorshipHandler.ListTeachers)
	students.POST("/submissions/file", submissionHandler.SubmitFile)
	students.POST("/submissions/link", submissionHandler.SubmitLink)
	students.GET("/submissions", submissionHandler.List)
	students.POST("/assistant/chat", assistantHandler.Chat)

	approved.GET("/stats/leaderboard", aggregateHandler.Leaderboard)

	teachers := approved.Group("")
	teachers.Use(middleware.RequireRoles(models.RoleTeacher))
	teachers.POST("/mentees/sessions/:id/validate", sessionHandler.ValidateAsMentor)
	teachers.POST("/plans", planHandler.Create)
	teachers.POST("/tasks", taskHandler.Assign)
	teachers.GET("/tasks/assigned", taskHandler.ListAssigned)
	teachers.GET("/mentorships/requests", mentorshipHandler.ListForTeacher)
	teachers.POST("/mentorships/:id/respond", mentorshipHandler.Respond)

	admins := approved.Group("/admin")
	admins.Use(middleware.RequireRoles(models.RoleAdmin))
	admins.GET("/users", adminHandler.ListUsers)
	admins.POST("/users/:id/approve", adminHandler.ApproveUser)
	admins.POST("/users/:id/reset-password", adminHandler.ResetPassword)
	admins.GET("/overview", adminHandler.Overview)
	admins.GET("/sessions/active", adminHandler.MonitorSessions)
	admins.POST("/licenses", adminHandler.IssueLicense)
	admins.GET("/licenses", adminHandler.ListLicenses)
	admins.GET("/support", adminHandler.ListSupportMessages)
	admins.POST("/support/:id/read", adminHandler.MarkSupportMessageRead)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
