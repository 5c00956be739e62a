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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/scholaris/scholaris-api/api/swagger"
	"github.com/scholaris/scholaris-api/internal/handler"
	"github.com/scholaris/scholaris-api/internal/middleware"
	"github.com/scholaris/scholaris-api/internal/models"
	"github.com/scholaris/scholaris-api/internal/repository"
	"github.com/scholaris/scholaris-api/internal/service"
	"github.com/scholaris/scholaris-api/pkg/cache"
	"github.com/scholaris/scholaris-api/pkg/config"
	"github.com/scholaris/scholaris-api/pkg/database"
	"github.com/scholaris/scholaris-api/pkg/jobs"
	"github.com/scholaris/scholaris-api/pkg/logger"
	corsmiddleware "github.com/scholaris/scholaris-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scholaris/scholaris-api/pkg/middleware/requestid"
	"github.com/scholaris/scholaris-api/pkg/storage"
)

// @title Scholaris API
// @version 1.0.0
// @description Multi-tenant school management API: grading, reports, and student transitions
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	exportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	termRepo := repository.NewTermRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	gradingRepo := repository.NewGradingSystemRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)
	reportJobRepo := repository.NewReportJobRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(redisClient, cfg.Dashboard.CacheTTL, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		Audience:           []string{cfg.JWT.Audience},
		SingleSession:      cfg.JWT.SingleSession,
	})
	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	termSvc := service.NewTermService(termRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	gradingSvc := service.NewGradingSystemService(gradingRepo, userRepo, validate, logr)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, classRepo, userRepo, validate, logr)
	reportSvc := service.NewReportService(assessmentRepo, classRepo, studentRepo, subjectRepo, gradingSvc, logr)
	transitionSvc := service.NewTransitionService(transitionRepo, classRepo, studentRepo, assessmentRepo, gradingSvc, userRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(reportJobRepo, reportSvc, exportStore, signer, validate, logr)
	exportSvc.AttachMetrics(metricsSvc)

	exportQueue := jobs.NewQueue("report-exports", exportSvc.Process, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	exportSvc.AttachQueue(exportQueue)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportQueue.Start(rootCtx)
	defer exportQueue.Stop()
	exportSvc.RecoverQueued(rootCtx)

	go cleanupExports(rootCtx, exportStore, cfg.Reports, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	termHandler := handler.NewTermHandler(termSvc)
	classHandler := handler.NewClassHandler(classSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	userHandler := handler.NewUserHandler(userSvc)
	gradingHandler := handler.NewGradingHandler(gradingSvc)
	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	transitionHandler := handler.NewTransitionHandler(transitionSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
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
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	schools := api.Group("/schools", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleSuperAdmin))
	{
		schools.GET("", schoolHandler.List)
		schools.POST("", schoolHandler.Create)
		schools.GET("/:id", schoolHandler.Get)
		schools.PUT("/:id", schoolHandler.Update)
	}

	tenant := api.Group("", middleware.JWT(authSvc), middleware.RequireSchool())
	{
		admin := middleware.RequireRoles(models.RoleAdmin)
		staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
		anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleParent)

		tenant.GET("/sessions", staff, termHandler.ListSessions)
		tenant.POST("/sessions", admin, termHandler.CreateSession)
		tenant.POST("/sessions/:id/current", admin, termHandler.SetCurrentSession)
		tenant.GET("/sessions/:id/terms", staff, termHandler.ListTerms)
		tenant.GET("/terms/:id", staff, termHandler.GetTerm)
		tenant.POST("/terms", admin, termHandler.CreateTerm)

		tenant.GET("/classes", staff, classHandler.List)
		tenant.POST("/classes", admin, classHandler.Create)
		tenant.GET("/classes/:id", staff, classHandler.Get)
		tenant.PUT("/classes/:id", admin, classHandler.Update)
		tenant.POST("/classes/:id/subjects", admin, classHandler.AssignSubject)

		tenant.GET("/class-terms", staff, classHandler.ListClassTerms)
		tenant.POST("/class-terms", admin, classHandler.OpenClassTerm)
		tenant.GET("/class-terms/:id", staff, classHandler.GetClassTerm)
		tenant.GET("/class-terms/:id/students", staff, classHandler.Roster)
		tenant.POST("/class-terms/:id/students", admin, classHandler.AssignStudent)
		tenant.GET("/class-terms/:id/assessments", staff, assessmentHandler.ListByClassTerm)
		tenant.GET("/class-terms/:id/broadsheet", staff, reportHandler.ClassBroadsheet)

		tenant.GET("/subjects", staff, subjectHandler.List)
		tenant.POST("/subjects", admin, subjectHandler.Create)
		tenant.GET("/subjects/:id", staff, subjectHandler.Get)
		tenant.PUT("/subjects/:id", admin, subjectHandler.Update)

		tenant.GET("/students", staff, studentHandler.List)
		tenant.POST("/students", admin, studentHandler.Create)
		tenant.GET("/students/:id", anyRole, studentHandler.Get)
		tenant.PUT("/students/:id", admin, studentHandler.Update)
		tenant.GET("/students/:id/assessments", anyRole, assessmentHandler.ListByStudent)
		tenant.GET("/students/:id/report", anyRole, reportHandler.StudentTermReport)
		tenant.GET("/students/:id/eligibility", staff, transitionHandler.Eligibility)

		tenant.GET("/users", admin, userHandler.List)
		tenant.POST("/users", admin, userHandler.Create)
		tenant.GET("/users/:id", admin, userHandler.Get)
		tenant.PUT("/users/:id", admin, userHandler.Update)

		tenant.GET("/grading-system", staff, gradingHandler.Get)
		tenant.PUT("/grading-system", admin, gradingHandler.Save)

		tenant.PUT("/assessments", staff, assessmentHandler.Upsert)
		tenant.PUT("/assessments/bulk", staff, assessmentHandler.BulkUpsert)
		tenant.DELETE("/assessments/:id", staff, assessmentHandler.Delete)

		tenant.GET("/transitions", staff, transitionHandler.History)
		tenant.POST("/transitions", admin, transitionHandler.Execute)

		tenant.POST("/reports/jobs", staff, reportHandler.EnqueueExport)
		tenant.GET("/reports/jobs/:id", staff, reportHandler.ExportStatus)

		tenant.GET("/dashboard", staff, dashboardHandler.Overview)
	}

	// Download is authenticated by the signed token, not a JWT, so parents can
	// follow links from outside the app.
	api.GET("/reports/download", reportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func cleanupExports(ctx context.Context, store *storage.LocalStorage, cfg config.ReportsConfig, logr *zap.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.CleanupOlderThan(cfg.RetentionPeriod)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				logr.Sugar().Infow("expired exports removed", "count", len(deleted))
			}
		}
	}
}
