package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration of the server binary.
type Config struct {
	Server   Server
	Log      LogConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	S3       S3Config
	Teardown TeardownConfig
	Paging   PagingConfig
	Lock     LockConfig
	Session  SessionConfig
	// StudiesFile points at a JSON document describing the studies served by
	// this instance. Empty means the built-in development study.
	StudiesFile string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

// RedisConfig configures the shared go-redis client. An empty URL disables Redis
// and the in-memory lock and session implementations are used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the database/sql pool. An empty URL selects the
// in-memory stores.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

// KafkaConfig configures the audit publisher. No brokers means audit events
// stay in process.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	ClientID          string
	Partitions        int32
	ReplicationFactor int16
}

// S3Config configures the health data bucket.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
}

// TeardownConfig bounds account deletion retries.
type TeardownConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	// RandomizationFactor jitters each backoff interval by up to this
	// fraction. Zero keeps the schedule deterministic.
	RandomizationFactor float64
	Timeout             time.Duration
}

// PagingConfig bounds the page size accepted by roster listings.
type PagingConfig struct {
	MinPageSize int
	MaxPageSize int
}

// LockConfig controls distributed lock expiry.
type LockConfig struct {
	TTL time.Duration
}

// SessionConfig bounds sessions opened for administratively created users.
type SessionConfig struct {
	TTL time.Duration
}

// FromEnv builds the configuration from COHORT_* environment variables so main stays lean.
func FromEnv() (*Config, error) {
	r := &reader{}
	cfg := &Config{
		Server: Server{
			Addr:            r.str("COHORT_ADDR", ":8080"),
			ShutdownTimeout: r.duration("COHORT_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Format: r.str("COHORT_LOG_FORMAT", "json"),
			Level:  r.str("COHORT_LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			URL:          r.str("COHORT_REDIS_URL", ""),
			PoolSize:     r.int("COHORT_REDIS_POOL_SIZE", 10),
			MinIdleConns: r.int("COHORT_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("COHORT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("COHORT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("COHORT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             r.str("COHORT_DATABASE_URL", ""),
			MaxOpenConns:    r.int("COHORT_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    r.int("COHORT_DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: r.duration("COHORT_DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Migrate:         r.bool("COHORT_DB_MIGRATE", true),
		},
		Kafka: KafkaConfig{
			Brokers:           r.list("COHORT_KAFKA_BROKERS"),
			AuditTopic:        r.str("COHORT_KAFKA_AUDIT_TOPIC", "cohort.audit"),
			ClientID:          r.str("COHORT_KAFKA_CLIENT_ID", "cohort"),
			Partitions:        int32(r.int("COHORT_KAFKA_PARTITIONS", 3)),
			ReplicationFactor: int16(r.int("COHORT_KAFKA_REPLICATION_FACTOR", 1)),
		},
		S3: S3Config{
			Bucket:          r.str("COHORT_S3_BUCKET", ""),
			Region:          r.str("COHORT_S3_REGION", "us-east-1"),
			Endpoint:        r.str("COHORT_S3_ENDPOINT", ""),
			AccessKeyID:     r.str("COHORT_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: r.str("COHORT_S3_SECRET_ACCESS_KEY", ""),
			Prefix:          r.str("COHORT_S3_PREFIX", "healthdata/"),
			UsePathStyle:    r.bool("COHORT_S3_USE_PATH_STYLE", false),
		},
		Teardown: TeardownConfig{
			MaxAttempts:         r.int("COHORT_TEARDOWN_MAX_ATTEMPTS", 6),
			InitialInterval:     r.duration("COHORT_TEARDOWN_INITIAL_INTERVAL", 100*time.Millisecond),
			Multiplier:          r.float("COHORT_TEARDOWN_MULTIPLIER", 2),
			MaxInterval:         r.duration("COHORT_TEARDOWN_MAX_INTERVAL", 2*time.Second),
			RandomizationFactor: r.float("COHORT_TEARDOWN_RANDOMIZATION", 0),
			Timeout:             r.duration("COHORT_TEARDOWN_TIMEOUT", 30*time.Second),
		},
		Paging: PagingConfig{
			MinPageSize: r.int("COHORT_PAGE_SIZE_MIN", 5),
			MaxPageSize: r.int("COHORT_PAGE_SIZE_MAX", 250),
		},
		Lock: LockConfig{
			TTL: r.duration("COHORT_LOCK_TTL", 30*time.Second),
		},
		Session: SessionConfig{
			TTL: r.duration("COHORT_SESSION_TTL", 12*time.Hour),
		},
		StudiesFile: r.str("COHORT_STUDIES_FILE", ""),
	}
	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Paging.MinPageSize < 1 || c.Paging.MaxPageSize < c.Paging.MinPageSize {
		return fmt.Errorf("invalid page size bounds [%d, %d]", c.Paging.MinPageSize, c.Paging.MaxPageSize)
	}
	if c.Teardown.MaxAttempts < 1 {
		return fmt.Errorf("COHORT_TEARDOWN_MAX_ATTEMPTS must be at least 1")
	}
	if c.Teardown.Multiplier < 1 {
		return fmt.Errorf("COHORT_TEARDOWN_MULTIPLIER must be at least 1")
	}
	if c.Teardown.RandomizationFactor < 0 || c.Teardown.RandomizationFactor > 1 {
		return fmt.Errorf("COHORT_TEARDOWN_RANDOMIZATION must be within [0, 1]")
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("COHORT_LOCK_TTL must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("COHORT_SESSION_TTL must be positive")
	}
	return nil
}

// reader collects the first parse error so FromEnv can report it once.
type reader struct {
	err error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *reader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return f
}

func (r *reader) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("parse %s: %w", key, err)
	}
}
