package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/faculty-loading-api/api/swagger"
	"github.com/noah-isme/faculty-loading-api/internal/handler"
	"github.com/noah-isme/faculty-loading-api/internal/middleware"
	"github.com/noah-isme/faculty-loading-api/internal/repository"
	"github.com/noah-isme/faculty-loading-api/internal/service"
	"github.com/noah-isme/faculty-loading-api/pkg/cache"
	"github.com/noah-isme/faculty-loading-api/pkg/config"
	"github.com/noah-isme/faculty-loading-api/pkg/database"
	"github.com/noah-isme/faculty-loading-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/faculty-loading-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/faculty-loading-api/pkg/middleware/requestid"
)

// @title Faculty Loading API
// @version 1.0.0
// @description Term scheduling and automatic faculty assignment
// @BasePath /api/v1
// @schemes http
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	terms := repository.NewTermRepository(db)
	faculty := repository.NewFacultyMemberRepository(db)
	meetings := repository.NewClassMeetingRepository(db)
	feedbacks := repository.NewFeedbackRepository(db)
	constraints := repository.NewTimeConstraintRepository(db)
	externalLoads := repository.NewExternalLoadRepository(db)
	subjects := repository.NewSubjectRepository(db)
	users := repository.NewUserRepository(db)

	recommendCache := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metrics,
		cfg.Recommend.CacheTTL,
		logr,
		cfg.Recommend.CacheEnabled && redisClient != nil,
	)

	authService := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	termService := service.NewTermService(service.TermRepositories{
		Terms:         terms,
		ClassMeetings: meetings,
		Subjects:      subjects,
		Faculty:       faculty,
		Constraints:   constraints,
		ExternalLoads: externalLoads,
	}, recommendCache, validate, logr)
	schedulerService := service.NewSchedulerService(service.SchedulerRepositories{
		Terms:         terms,
		Faculty:       faculty,
		ClassMeetings: meetings,
		Feedbacks:     feedbacks,
		Constraints:   constraints,
		ExternalLoads: externalLoads,
	}, repository.NewTermLockRepository(redisClient), recommendCache, metrics, validate, logr, service.SchedulerConfig{
		RunTimeout:     cfg.Scheduler.RunTimeout,
		ScoringWorkers: cfg.Scheduler.ScoringWorkers,
		LockTTL:        cfg.Scheduler.LockTTL,
		CacheTTL:       cfg.Recommend.CacheTTL,
	})
	loadingService := service.NewLoadingService(service.LoadingRepositories{
		Terms:         terms,
		Faculty:       faculty,
		ClassMeetings: meetings,
		ExternalLoads: externalLoads,
	}, service.LoadingConfig{Institution: cfg.Exports.Institution}, nil, nil, logr)

	checks := map[string]handler.Pinger{"postgres": db, "redis": nil}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routes{
		auth:       handler.NewAuthHandler(authService),
		terms:      handler.NewTermHandler(termService),
		scheduler:  handler.NewSchedulerHandler(schedulerService),
		loading:    handler.NewLoadingHandler(loadingService),
		subjects:   handler.NewSubjectHandler(service.NewSubjectService(subjects, logr)),
		tokens:     authService,
		autoAssign: middleware.NewRateLimiter(cfg.Scheduler.RateLimit, cfg.Scheduler.RateBurst),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "redis", redisClient != nil)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
