package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/repository"
	"github.com/noah-isme/faculty-loading-api/internal/service"
	"github.com/noah-isme/faculty-loading-api/pkg/cache"
	"github.com/noah-isme/faculty-loading-api/pkg/config"
	"github.com/noah-isme/faculty-loading-api/pkg/database"
	"github.com/noah-isme/faculty-loading-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "loadctl",
	Short: "loadctl administers the faculty loading database and scheduler",
	Long: `loadctl runs schema migrations, seeds accounts and drives the
automatic assignment engine without going through the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the dependencies shared by subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	redis  *redis.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &app{cfg: cfg, logger: logr, db: db, redis: client}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
	a.logger.Sync() //nolint:errcheck
}

// scheduler builds the same SchedulerService the API serves.
func (a *app) scheduler() *service.SchedulerService {
	terms := repository.NewTermRepository(a.db)
	recommendCache := service.NewCacheService(
		repository.NewCacheRepository(a.redis, a.logger),
		nil,
		a.cfg.Recommend.CacheTTL,
		a.logger,
		a.cfg.Recommend.CacheEnabled && a.redis != nil,
	)
	return service.NewSchedulerService(service.SchedulerRepositories{
		Terms:         terms,
		Faculty:       repository.NewFacultyMemberRepository(a.db),
		ClassMeetings: repository.NewClassMeetingRepository(a.db),
		Feedbacks:     repository.NewFeedbackRepository(a.db),
		Constraints:   repository.NewTimeConstraintRepository(a.db),
		ExternalLoads: repository.NewExternalLoadRepository(a.db),
	}, repository.NewTermLockRepository(a.redis), recommendCache, nil, validator.New(), a.logger, service.SchedulerConfig{
		RunTimeout:     a.cfg.Scheduler.RunTimeout,
		ScoringWorkers: a.cfg.Scheduler.ScoringWorkers,
		LockTTL:        a.cfg.Scheduler.LockTTL,
		CacheTTL:       a.cfg.Recommend.CacheTTL,
	})
}
