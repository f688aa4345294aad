package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/deputat-planner/api/swagger"
	"github.com/noah-isme/deputat-planner/internal/handler"
	internalmiddleware "github.com/noah-isme/deputat-planner/internal/middleware"
	"github.com/noah-isme/deputat-planner/internal/models"
	"github.com/noah-isme/deputat-planner/internal/repository"
	"github.com/noah-isme/deputat-planner/internal/service"
	"github.com/noah-isme/deputat-planner/pkg/cache"
	"github.com/noah-isme/deputat-planner/pkg/config"
	"github.com/noah-isme/deputat-planner/pkg/database"
	appErrors "github.com/noah-isme/deputat-planner/pkg/errors"
	"github.com/noah-isme/deputat-planner/pkg/export"
	"github.com/noah-isme/deputat-planner/pkg/jobs"
	"github.com/noah-isme/deputat-planner/pkg/logger"
	corsmiddleware "github.com/noah-isme/deputat-planner/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/deputat-planner/pkg/middleware/requestid"
	"github.com/noah-isme/deputat-planner/pkg/response"
)

// @title Deputat Planner API
// @version 1.0.0
// @description Teaching-load allocation and staffing reports for secondary schools.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without report cache and cross-replica run lock", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	groupRepo := repository.NewParallelGroupRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportRepo := repository.NewStaffingReportRepository(db)
	runRepo := repository.NewPlanningRunRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	reportCache := service.NewReportCache(cacheRepo, metricsSvc, cfg.Planning.ReportCacheTTL, logr, redisClient != nil)
	matcher := service.NewQualificationMatcher(nil, nil, nil)
	optimizer := service.NewAssignmentOptimizer(service.DefaultCurriculum, matcher, logr)
	exporter := service.NewExportService(service.ExportConfig{Title: cfg.Exports.Title}, logr,
		export.NewCSVExporter(';'), export.NewPDFExporter(), export.NewXLSXExporter(""))

	planningSvc := service.NewPlanningService(teacherRepo, classRepo, subjectRepo, assignmentRepo, runRepo, db,
		cacheRepo, reportCache, metricsSvc, optimizer, logr, service.PlanningServiceConfig{LockTTL: cfg.Planning.RunLockTTL})
	staffingSvc := service.NewStaffingService(classRepo, subjectRepo, groupRepo, teacherRepo, assignmentRepo, reportRepo, db,
		reportCache, metricsSvc, exporter, service.NewStaffingCalculator(matcher), validate, logr,
		service.StaffingServiceConfig{DefaultRatio: cfg.Planning.DefaultRatio, DefaultDeputat: cfg.Planning.DefaultDeputat})
	teamSvc := service.NewTeamTeachingService(assignmentRepo, db, logr)
	catalogueSvc := service.NewCatalogueService(teacherRepo, classRepo, subjectRepo, groupRepo)

	queue := jobs.NewQueue("planning", planningSvc.HandleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Planning.QueueBuffer,
		MaxRetries: cfg.Planning.QueueRetries,
		RetryDelay: cfg.Planning.QueueRetryWait,
		OnGiveUp:   planningSvc.AbandonJob,
		Logger:     logr,
	})
	if cfg.Planning.Enabled {
		queue.Start(ctx)
		planningSvc.SetQueue(queue)
		planningSvc.RecoverPendingRuns(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokens))
	registerRoutes(api, cfg, logr, routeHandlers{
		planning:  handler.NewPlanningHandler(planningSvc, validate, cfg.APIPrefix+"/planning/runs"),
		staffing:  handler.NewStaffingHandler(staffingSvc, validate),
		team:      handler.NewTeamTeachingHandler(teamSvc, validate),
		catalogue: handler.NewCatalogueHandler(catalogueSvc),
		metrics:   metricsHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	queue.Stop()
}

type routeHandlers struct {
	planning  *handler.PlanningHandler
	staffing  *handler.StaffingHandler
	team      *handler.TeamTeachingHandler
	catalogue *handler.CatalogueHandler
	metrics   *handler.MetricsHandler
}

func registerRoutes(api *gin.RouterGroup, cfg *config.Config, logr *zap.Logger, h routeHandlers) {
	planners := internalmiddleware.RequireRoles(models.RolePlanner)
	everyone := internalmiddleware.RequireRoles(models.RolePlanner, models.RoleViewer)
	planningOff := func(c *gin.Context) { response.Error(c, appErrors.ErrFeatureDisabled) }

	api.GET("/metrics/summary", internalmiddleware.RequireRoles(), h.metrics.Summary)

	api.GET("/teachers", everyone, h.catalogue.Teachers)
	api.GET("/teachers/:id", everyone, h.catalogue.Teacher)
	api.GET("/subjects", everyone, h.catalogue.Subjects)
	api.GET("/parallel-groups", everyone, h.catalogue.ParallelGroups)
	api.GET("/classes/:schoolYear", everyone, h.catalogue.Classes)

	planning := api.Group("/planning", internalmiddleware.FeatureFlag(cfg.Planning.Enabled, planningOff))
	planning.GET("/runs/:id", everyone, h.planning.Run)
	planning.POST("/:schoolYear/optimize", planners, internalmiddleware.Audit(logr, "planning.optimize"), h.planning.Optimize)
	planning.POST("/:schoolYear/optimize/async", planners, internalmiddleware.Audit(logr, "planning.optimize_async"), h.planning.OptimizeAsync)
	planning.GET("/:schoolYear/assignments", everyone, h.planning.Assignments)
	planning.GET("/:schoolYear/runs", everyone, h.planning.Runs)
	planning.POST("/:schoolYear/team-teaching", planners, internalmiddleware.Audit(logr, "team_teaching.form"), h.team.Form)
	planning.DELETE("/:schoolYear/team-teaching/:id", planners, internalmiddleware.Audit(logr, "team_teaching.leave"), h.team.Leave)

	staffing := api.Group("/staffing")
	staffing.GET("/policy-defaults", everyone, h.staffing.PolicyDefaults)
	staffing.GET("/:schoolYear/grade-hours", everyone, h.staffing.GradeHours)
	staffing.GET("/:schoolYear/roster-report", everyone, persistGuard(planners), h.staffing.RosterReport)
	staffing.POST("/:schoolYear/policy-report", everyone, persistGuard(planners), h.staffing.PolicyReport)
	staffing.GET("/:schoolYear/export", everyone, h.staffing.Export)
}

// persistGuard applies roleCheck only to requests asking to store a report.
func persistGuard(roleCheck gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if persist, _ := strconv.ParseBool(c.Query("persist")); persist {
			roleCheck(c)
			return
		}
		c.Next()
	}
}
