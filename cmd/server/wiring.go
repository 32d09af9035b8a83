package main

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"

	accountstore "cohort/internal/account/store"
	"cohort/internal/activity"
	"cohort/internal/consent"
	"cohort/internal/externalid"
	"cohort/internal/healthcode"
	"cohort/internal/healthdata"
	"cohort/internal/lock"
	"cohort/internal/options"
	participant "cohort/internal/participant/service"
	"cohort/internal/participant/teardown"
	"cohort/internal/platform/config"
	"cohort/internal/platform/httpserver"
	"cohort/internal/platform/kafka"
	"cohort/internal/platform/postgres"
	platformredis "cohort/internal/platform/redis"
	"cohort/internal/session"
	"cohort/internal/study"
	"cohort/internal/survey"
	"cohort/pkg/platform/audit"
	"cohort/pkg/platform/audit/publisher"
	kafkaaudit "cohort/pkg/platform/audit/store/kafka"
	auditmemory "cohort/pkg/platform/audit/store/memory"
	postgresaudit "cohort/pkg/platform/audit/store/postgres"
)

const (
	auditBufferSize       = 1024
	auditBreakerThreshold = 5
	auditBreakerCooldown  = 30 * time.Second
)

// app holds the long-lived components. The orchestrator and teardown
// coordinator are what request-handling code is given.
type app struct {
	studies      *study.Registry
	participants *participant.Service
	teardown     *teardown.Coordinator

	db        *sql.DB
	redis     *platformredis.Client
	kafka     *kgo.Client
	publisher *publisher.Publisher
	checks    []httpserver.Check
	backends  []string
}

// stores groups the persistence choices made from configuration.
type stores struct {
	accounts interface {
		participant.AccountStore
		teardown.Accounts
	}
	healthCodes interface {
		participant.HealthCodes
		accountstore.HealthCodeMinter
	}
	externalIDs externalid.Store
	options     interface {
		participant.OptionsStore
		teardown.Options
	}
	consents   consent.Store
	activities teardown.Activities
	surveys    teardown.Surveys
	healthData teardown.HealthData
	sessions   interface {
		participant.SessionCache
		teardown.Sessions
	}
	locks teardown.Locker
}

func build(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{}

	studies, err := loadStudies(cfg.StudiesFile)
	if err != nil {
		return nil, err
	}
	a.studies = studies

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	auditStore, err := a.openAuditStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.publisher = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithCircuitBreaker(publisher.NewCircuitBreaker(auditBreakerThreshold, auditBreakerCooldown)),
	)

	registry, err := externalid.New(st.externalIDs, st.options,
		externalid.WithLogger(log),
		externalid.WithReservationTTL(cfg.Lock.TTL),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	consents, err := consent.New(st.consents,
		consent.WithLogger(log),
		consent.WithRevisionSource(studies),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.participants, err = participant.New(participant.Deps{
		Accounts:       st.accounts,
		HealthCodes:    st.healthCodes,
		ExternalIDs:    registry,
		Options:        st.options,
		Consents:       consents,
		Subpopulations: studies,
		Sessions:       st.sessions,
	},
		participant.WithLogger(log),
		participant.WithAuditPublisher(a.publisher),
		participant.WithMetrics(participant.NewMetrics(reg)),
		participant.WithPageSizeBounds(cfg.Paging.MinPageSize, cfg.Paging.MaxPageSize),
		participant.WithSessionTTL(cfg.Session.TTL),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.teardown, err = teardown.New(teardown.Deps{
		Accounts:    st.accounts,
		HealthCodes: st.healthCodes,
		Locks:       st.locks,
		Consents:    consents,
		HealthData:  st.healthData,
		Activities:  st.activities,
		Surveys:     st.surveys,
		Options:     st.options,
		Sessions:    st.sessions,
	},
		teardown.WithRetryPolicy(teardown.RetryPolicy{
			MaxAttempts:         cfg.Teardown.MaxAttempts,
			InitialInterval:     cfg.Teardown.InitialInterval,
			Multiplier:          cfg.Teardown.Multiplier,
			MaxInterval:         cfg.Teardown.MaxInterval,
			RandomizationFactor: cfg.Teardown.RandomizationFactor,
		}),
		teardown.WithLogger(log),
		teardown.WithAuditPublisher(a.publisher),
		teardown.WithMetrics(teardown.NewMetrics(reg)),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func loadStudies(path string) (*study.Registry, error) {
	if path == "" {
		return study.NewRegistry(study.DefaultStudy())
	}
	return study.LoadFile(path)
}

func (a *app) openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db != nil {
		a.db = db
		a.backends = append(a.backends, "postgres")
		a.checks = append(a.checks, httpserver.Check{Name: "postgres", Probe: db.PingContext})

		healthCodes := healthcode.NewPostgres(db)
		st.healthCodes = healthCodes
		st.accounts = accountstore.NewPostgres(db, accountstore.WithHealthCodeMinter(healthCodes))
		st.externalIDs = externalid.NewPostgres(db)
		st.options = options.NewPostgres(db)
		st.consents = consent.NewPostgres(db)
		st.activities = activity.NewPostgres(db)
		st.surveys = survey.NewPostgres(db)
	} else {
		a.backends = append(a.backends, "memory")
		healthCodes := healthcode.NewInMemory()
		st.healthCodes = healthCodes
		st.accounts = accountstore.NewInMemory(accountstore.WithHealthCodeMinter(healthCodes))
		st.externalIDs = externalid.NewInMemory()
		st.options = options.NewInMemory()
		st.consents = consent.NewInMemory()
		st.activities = activity.NewInMemory()
		st.surveys = survey.NewInMemory()
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		a.redis = redisClient
		a.backends = append(a.backends, "redis")
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Probe: redisClient.Health})
		st.sessions = session.NewRedis(redisClient.UniversalClient)
		st.locks = lock.NewRedis(redisClient.UniversalClient, lock.WithTTL(cfg.Lock.TTL))
	} else {
		st.sessions = session.NewInMemory()
		st.locks = lock.NewInMemory(lock.WithTTL(cfg.Lock.TTL))
	}

	if cfg.S3.Bucket != "" {
		healthData, err := healthdata.NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		a.backends = append(a.backends, "s3")
		st.healthData = healthData
	} else {
		st.healthData = healthdata.NewInMemory()
	}
	return st, nil
}

// openAuditStore prefers Kafka, then Postgres, then process memory.
func (a *app) openAuditStore(ctx context.Context, cfg *config.Config) (audit.Store, error) {
	client, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if client != nil {
		a.kafka = client
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return nil, err
		}
		a.backends = append(a.backends, "kafka")
		a.checks = append(a.checks, httpserver.Check{Name: "kafka", Probe: func(ctx context.Context) error {
			return kafka.Health(ctx, client)
		}})
		return kafkaaudit.New(client, cfg.Kafka.AuditTopic), nil
	}
	if a.db != nil {
		return postgresaudit.New(a.db), nil
	}
	return auditmemory.NewInMemoryStore(), nil
}

func (a *app) backendSummary() string {
	return strings.Join(a.backends, ",")
}

// Close flushes audit events before closing the clients they are written to.
func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
