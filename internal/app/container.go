package app

import (
	"context"
	"fmt"
	"time"

	"jobmate/internal/config"
	"jobmate/internal/database"
	dbpostgres "jobmate/internal/database/postgres"
	"jobmate/internal/domain/job"
	"jobmate/internal/domain/user"
	"jobmate/internal/infrastructure/cache"
	"jobmate/internal/logger"
	"jobmate/internal/repository"
	"jobmate/internal/scraper"
	"jobmate/internal/usecase"
	"jobmate/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived collaborator. Persistence and cache are
// optional: when unconfigured the usecases run without them.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Scraper *scraper.Scraper

	ScrapeUC   *usecase.ScrapeUsecase
	ResumeUC   *usecase.ResumeUsecase
	MatchingUC *usecase.MatchingUsecase

	stopHub context.CancelFunc
}

type containerOptions struct {
	fetcher scraper.FetcherFactory
}

type ContainerOption func(*containerOptions)

// WithFetcherFactory overrides how the scraper builds its fetchers.
func WithFetcherFactory(f scraper.FetcherFactory) ContainerOption {
	return func(o *containerOptions) { o.fetcher = f }
}

func NewContainer(cfg config.Config, log *zap.Logger, opts ...ContainerOption) (*Container, error) {
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: logger.OrNop(log)}

	var (
		writer   job.RecordWriter
		reader   job.Reader
		profiles usecase.ProfileStore
	)
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.VerifySchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("verify schema: %w", err)
		}
		c.DB = db

		jobs := repository.NewPostgresJobRepository(db)
		writer, reader = jobs, jobs
		profiles = repository.NewPostgresProfileRepository(db)
	} else {
		c.Logger.Info("database not configured, persistence disabled")
	}

	var scrapeCache usecase.ScrapeCache
	if cfg.Redis.Enabled() {
		c.Cache = cache.NewRedis(cfg.Redis, c.Logger)
		scrapeCache = c.Cache
	}

	hubCtx, stop := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(c.Logger)
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	c.Scraper = scraper.New(scraper.Options{
		Retries:   cfg.Scraper.Retries,
		BaseDelay: cfg.Scraper.BaseDelay,
		Timeout:   cfg.Scraper.Timeout,
		Headless:  cfg.Scraper.Headless,
	}, o.fetcher, c.Logger)

	c.ScrapeUC = usecase.NewScrapeUsecase(c.Scraper, scrapeCache, writer, c.Hub, usecase.ScrapeOptions{
		Workers: cfg.Scraper.Workers,
		HostRPS: cfg.Scraper.HostRPS,
	}, c.Logger)

	var profileReader user.ProfileReader
	if profiles != nil {
		profileReader = profiles
	}
	c.ResumeUC = usecase.NewResumeUsecase(profiles, cfg.Resume.MaxBytes, c.Logger)
	c.MatchingUC = usecase.NewMatchingUsecase(reader, writer, profileReader, c.Logger)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
