package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/student-portal-api/internal/handler"
	"github.com/edutrack/student-portal-api/internal/middleware"
	"github.com/edutrack/student-portal-api/internal/repository"
	"github.com/edutrack/student-portal-api/internal/service"
	"github.com/edutrack/student-portal-api/pkg/cache"
	"github.com/edutrack/student-portal-api/pkg/config"
	"github.com/edutrack/student-portal-api/pkg/database"
	"github.com/edutrack/student-portal-api/pkg/logger"
	corsmiddleware "github.com/edutrack/student-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edutrack/student-portal-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	rankCache := service.NewCacheService(cacheRepo, metrics, cfg.Rankings.CacheTTL, logr,
		cfg.Rankings.CacheEnabled && redisClient != nil)
	contentCache := service.NewCacheService(cacheRepo, metrics, cfg.Content.CacheTTL, logr,
		cfg.Content.CacheEnabled && redisClient != nil)

	validate := validator.New()

	scoringRepo := repository.NewScoringRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	contentRepo := repository.NewContentRepository(db)

	scoringSvc := service.NewScoringService(scoringRepo, service.DefaultDeltaStrategy(cfg.Scoring), validate, logr, metrics, rankCache)
	rankingSvc := service.NewRankingService(studentRepo, rankCache, cfg.Rankings.CacheTTL, cfg.Rankings.MaxPageSize, logr, metrics)
	contentSvc := service.NewContentService(contentRepo, studentRepo, contentCache, cfg.Content.CacheTTL, logr)
	exportSvc := service.NewExportService(rankingSvc, cfg.Export.Enabled, logr)

	attendanceHandler := handler.NewAttendanceHandler(scoringSvc)
	homeworkHandler := handler.NewHomeworkHandler(scoringSvc)
	studentHandler := handler.NewStudentHandler(rankingSvc, scoringSvc, contentSvc)
	rankingHandler := handler.NewRankingHandler(rankingSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/attendance", attendanceHandler.Mark)
		api.POST("/homework", homeworkHandler.Report)
		api.GET("/students/:id/rank", studentHandler.Rank)
		api.GET("/students/:id/score-history", studentHandler.ScoreHistory)
		api.GET("/students/:id/content", studentHandler.Content)
		api.GET("/rankings", rankingHandler.Leaderboard)
		api.GET("/rankings/export", rankingHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
