package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - optional: Attachments the service can run without (database, redis, kafka, tracing)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Store     StoreConfig
	CORS      CORSConfig
	Log       LogConfig
	Booking   BookingConfig
	Keepalive KeepaliveConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Tracing   TracingConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DBConfig is optional as a whole: the service books without durable storage
// when no database name is configured.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Africa/Cairo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type StoreMode string

const (
	StoreModeAuto     StoreMode = "auto"
	StoreModePostgres StoreMode = "postgres"
	StoreModeMemory   StoreMode = "memory"
	StoreModeAbsent   StoreMode = "absent"
)

type StoreConfig struct {
	Mode           StoreMode `envconfig:"STORE_MODE" default:"auto"`
	MigrateOnStart bool      `envconfig:"DB_MIGRATE_ON_START" default:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-Id"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Africa/Cairo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"7200"` // 2*60*60
}

type BookingConfig struct {
	TimeZone       string        `envconfig:"BOOKING_TIMEZONE" default:"Africa/Cairo"`
	DaysAhead      int           `envconfig:"BOOKING_DAYS_AHEAD" default:"60"`
	Openings       []string      `envconfig:"BOOKING_OPENINGS" default:"2025-02-25,2026-02-25"`
	ServiceArea    string        `envconfig:"BOOKING_SERVICE_AREA" default:"cairo"`
	NotesMaxLen    int           `envconfig:"BOOKING_NOTES_MAX_LEN" default:"1000"`
	AddressMaxLen  int           `envconfig:"BOOKING_ADDRESS_MAX_LEN" default:"300"`
	FullNameMaxLen int           `envconfig:"BOOKING_FULL_NAME_MAX_LEN" default:"120"`
	IdempotencyTTL time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	CatalogFile    string        `envconfig:"BOOKING_CATALOG_FILE"`
}

type KeepaliveConfig struct {
	Secret string `envconfig:"CRON_SECRET"`
}

type RateLimitConfig struct {
	Enabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	RedisURL string        `envconfig:"REDIS_URL"`
	Prefix   string        `envconfig:"RATE_LIMIT_PREFIX" default:"exoterior:rl"`
}

type NotifyConfig struct {
	Enabled      bool          `envconfig:"NOTIFY_ENABLED" default:"false"`
	PollInterval time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"NOTIFY_BATCH_SIZE" default:"20"`
	MaxAttempts  int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"5"`
	KafkaBrokers []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string        `envconfig:"KAFKA_TOPIC" default:"appointment.booked"`
}

type TracingConfig struct {
	Enabled      bool    `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName  string  `envconfig:"OTEL_SERVICE_NAME" default:"exoterior-booking"`
	OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	SampleRatio  float64 `envconfig:"OTEL_SAMPLING_RATIO" default:"1"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *DBConfig) Configured() bool {
	return strings.TrimSpace(c.DBName) != ""
}

// ResolveStoreMode turns "auto" into a concrete mode based on whether a database is configured.
func (c Config) ResolveStoreMode() (StoreMode, error) {
	switch c.Store.Mode {
	case StoreModeAuto, "":
		if c.DB.Configured() {
			return StoreModePostgres, nil
		}
		return StoreModeAbsent, nil
	case StoreModePostgres:
		if !c.DB.Configured() {
			return "", errors.New("STORE_MODE=postgres requires DB_NAME")
		}
		return StoreModePostgres, nil
	case StoreModeMemory, StoreModeAbsent:
		return c.Store.Mode, nil
	default:
		return "", fmt.Errorf("unknown STORE_MODE %q", c.Store.Mode)
	}
}

func LoadConfig() (Config, error) {
	// .env is a local convenience; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	// required only rejects an unset PORT; an empty one would bind a random port
	if strings.TrimSpace(cfg.Server.Port) == "" {
		return Config{}, errors.New("PORT must not be empty")
	}
	if _, err := cfg.ResolveStoreMode(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Africa/Cairo",
			MaxConns: 20,
		},
		Store: StoreConfig{
			Mode:           StoreModeMemory,
			MigrateOnStart: false,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Africa/Cairo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 7200,
		},
		Booking: BookingConfig{
			TimeZone:       "Africa/Cairo",
			DaysAhead:      60,
			Openings:       []string{"2025-02-25", "2026-02-25"},
			ServiceArea:    "cairo",
			NotesMaxLen:    1000,
			AddressMaxLen:  300,
			FullNameMaxLen: 120,
			IdempotencyTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:  false,
			Requests: 10,
			Window:   time.Minute,
			Prefix:   "test:rl",
		},
		Notify: NotifyConfig{
			Enabled:      false,
			PollInterval: 100 * time.Millisecond,
			BatchSize:    10,
			MaxAttempts:  3,
			KafkaTopic:   "appointment.booked",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "exoterior-booking-test",
			SampleRatio: 1,
		},
	}
}
