package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/acme/call-screening/internal/carrier"
	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/infra/db"
	"github.com/acme/call-screening/internal/infra/redis"
	"github.com/acme/call-screening/internal/notify"
	"github.com/acme/call-screening/internal/queue"
	"github.com/acme/call-screening/internal/repository"
	pgrepo "github.com/acme/call-screening/internal/repository/postgres"
	"github.com/acme/call-screening/internal/repository/redisstore"
	scyllarepo "github.com/acme/call-screening/internal/repository/scylla"
	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/internal/reputation/registry"
	corescreening "github.com/acme/call-screening/internal/screening"
	"github.com/acme/call-screening/internal/screening/race"
	rulessvc "github.com/acme/call-screening/internal/service/rules"
	screensvc "github.com/acme/call-screening/internal/service/screening"
	"github.com/acme/call-screening/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	Postgres *db.Postgres
	Scylla   *db.Scylla
	Redis    *redis.Client
	Kafka    *queue.Kafka

	// lazily initialised components
	components struct {
		once         sync.Once
		repositories *repositories
		services     *services
		publishers   *publishers
	}
}

type repositories struct {
	Lists    repository.NumberListStore
	Contacts repository.ContactsDirectory
	Verdicts repository.VerdictStore
	Stats    repository.ScreeningStatsRepository
}

type services struct {
	Screening *screensvc.Service
	Rules     *rulessvc.Service
}

type publishers struct {
	Verdict *queue.VerdictPublisher
}

// Build constructs a container for the given configuration path.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("bootstrap postgres: %w", err)
	}

	scylla, err := db.NewScylla(cfg.Scylla)
	if err != nil {
		return nil, fmt.Errorf("bootstrap scylla: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}

	kafka, err := queue.NewKafka(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("bootstrap kafka: %w", err)
	}

	container := &Container{
		Config:   cfg,
		Logger:   lg,
		Postgres: pg,
		Scylla:   scylla,
		Redis:    redisClient,
		Kafka:    kafka,
	}

	return container, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		repos := &repositories{
			Lists:    redisstore.NewNumberListStore(c.Redis.Inner()),
			Contacts: pgrepo.NewContactsDirectory(c.Postgres.DB()),
			Verdicts: scyllarepo.NewVerdictStore(c.Scylla.Session()),
			Stats:    pgrepo.NewScreeningStatsRepository(c.Postgres.DB()),
		}

		pub := &publishers{
			Verdict: queue.NewVerdictPublisher(c.Kafka, c.Config.Kafka.VerdictTopic),
		}

		evaluator := race.New(c.Logger)
		cache := reputation.NewCache(c.Redis.Inner(), c.Config.Providers.CacheTTL)
		source := screensvc.NewRaceSource(evaluator, cache, c.Config.Providers.CacheEnabled, c.Logger)
		sink := notify.NewLogSink(c.Logger)
		carrierInfo := carrier.NewStaticInfo(c.Config.Carrier.HomeCountry)
		checkerRegistry := registry.New(c.Config.Providers)

		pipeline := corescreening.NewPipeline(
			repos.Lists,
			repos.Contacts,
			carrierInfo,
			source,
			sink,
			c.Logger,
		)

		svcs := &services{
			Screening: screensvc.NewService(
				pipeline,
				repos.Lists,
				checkerRegistry,
				pub.Verdict,
				c.Config.Policy,
				c.Logger,
			),
			Rules: rulessvc.NewService(repos.Lists, c.Config.Carrier.HomeCountry),
		}

		c.components.repositories = repos
		c.components.publishers = pub
		c.components.services = svcs
	})
}

// Repositories exposes initialized repositories.
func (c *Container) Repositories() *repositories {
	c.initComponents()
	return c.components.repositories
}

// Services exposes initialized services.
func (c *Container) Services() *services {
	c.initComponents()
	return c.components.services
}

// Publishers exposes Kafka publishers.
func (c *Container) Publishers() *publishers {
	c.initComponents()
	return c.components.publishers
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if p := c.components.publishers; p != nil && p.Verdict != nil {
		if err := p.Verdict.Close(); err != nil {
			errs = append(errs, fmt.Errorf("verdict publisher close: %w", err))
		}
	}
	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Scylla != nil {
		if err := c.Scylla.Close(); err != nil {
			errs = append(errs, fmt.Errorf("scylla close: %w", err))
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// EnsureTopics ensures the verdict topic exists.
func (c *Container) EnsureTopics(ctx context.Context) error {
	c.initComponents()
	return c.Kafka.EnsureTopics(ctx, []string{c.Config.Kafka.VerdictTopic}, 12, 1)
}
