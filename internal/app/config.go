package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/contacts-backend/internal/clients/gravatar"
	"github.com/yungbote/contacts-backend/internal/clients/redis"
	"github.com/yungbote/contacts-backend/internal/data/db"
	"github.com/yungbote/contacts-backend/internal/platform/envutil"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

const defaultConfigPath = "./config/config.yaml"

type Config struct {
	LogMode      string `yaml:"log_mode"`
	LogRedaction bool   `yaml:"log_redaction"`
	LogHashSalt  string `yaml:"log_hash_salt"`
	Environment  string `yaml:"environment"`
	Version      string `yaml:"version"`

	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `yaml:"db"`
	Avatar  AvatarConfig  `yaml:"avatar"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`
	Otel    OtelConfig    `yaml:"otel"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DBConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	SQLitePath      string        `yaml:"sqlite_path"`
	PostgresHost    string        `yaml:"postgres_host"`
	PostgresPort    string        `yaml:"postgres_port"`
	PostgresUser    string        `yaml:"postgres_user"`
	PostgresPass    string        `yaml:"postgres_password"`
	PostgresName    string        `yaml:"postgres_name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
}

type AvatarConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BaseURL      string        `yaml:"base_url"`
	Size         int           `yaml:"size"`
	Default      string        `yaml:"default"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Addr           string        `yaml:"addr"`
	ScrapeInterval time.Duration `yaml:"scrape_interval"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:      "development",
		LogRedaction: true,
		Environment:  "local",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Driver:        db.DriverSQLite,
			SQLitePath:    "contacts.db",
			PostgresHost:  "localhost",
			PostgresPort:  "5432",
			PostgresUser:  "postgres",
			PostgresName:  "contacts",
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			SlowThreshold: time.Second,
		},
		Avatar: AvatarConfig{
			Enabled:      true,
			BaseURL:      gravatar.DefaultBaseURL,
			Size:         gravatar.DefaultSize,
			Default:      gravatar.DefaultImage,
			ProbeTimeout: gravatar.DefaultTimeout,
		},
		Redis: RedisConfig{
			Channel: redis.DefaultChannel,
		},
		Metrics: MetricsConfig{
			Addr:           ":9090",
			ScrapeInterval: 10 * time.Second,
		},
		Otel: OtelConfig{
			ServiceName: "contacts",
			SampleRatio: 0.1,
		},
	}
}

// LoadConfig layers defaults, then the optional YAML file, then the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path := envutil.String("CONTACTS_CONFIG_PATH", "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if err := loadConfigFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogRedaction = envutil.Bool("LOG_REDACTION_ENABLED", cfg.LogRedaction)
	cfg.LogHashSalt = envutil.String("LOG_HASH_SALT", cfg.LogHashSalt)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)

	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ShutdownTimeout = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	cfg.HTTP.AllowedOrigins = envutil.CSV("CORS_ALLOWED_ORIGINS", cfg.HTTP.AllowedOrigins)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.DSN = envutil.String("DB_DSN", cfg.DB.DSN)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.PostgresHost = envutil.String("POSTGRES_HOST", cfg.DB.PostgresHost)
	cfg.DB.PostgresPort = envutil.String("POSTGRES_PORT", cfg.DB.PostgresPort)
	cfg.DB.PostgresUser = envutil.String("POSTGRES_USER", cfg.DB.PostgresUser)
	cfg.DB.PostgresPass = envutil.String("POSTGRES_PASSWORD", cfg.DB.PostgresPass)
	cfg.DB.PostgresName = envutil.String("POSTGRES_NAME", cfg.DB.PostgresName)
	cfg.DB.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", cfg.DB.MaxOpenConns)
	cfg.DB.MaxIdleConns = envutil.Int("DB_MAX_IDLE_CONNS", cfg.DB.MaxIdleConns)
	cfg.DB.ConnMaxLifetime = envutil.Duration("DB_CONN_MAX_LIFETIME", cfg.DB.ConnMaxLifetime)
	cfg.DB.SlowThreshold = envutil.Duration("DB_SLOW_THRESHOLD", cfg.DB.SlowThreshold)

	cfg.Avatar.Enabled = envutil.Bool("AVATAR_ENRICH_ENABLED", cfg.Avatar.Enabled)
	cfg.Avatar.BaseURL = envutil.String("AVATAR_BASE_URL", cfg.Avatar.BaseURL)
	cfg.Avatar.Size = envutil.Int("AVATAR_SIZE", cfg.Avatar.Size)
	cfg.Avatar.Default = envutil.String("AVATAR_DEFAULT", cfg.Avatar.Default)
	cfg.Avatar.ProbeTimeout = envutil.Duration("AVATAR_PROBE_TIMEOUT", cfg.Avatar.ProbeTimeout)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = envutil.String("METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Metrics.ScrapeInterval = envutil.Duration("METRICS_SCRAPE_INTERVAL_SECONDS", cfg.Metrics.ScrapeInterval)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
}

func (c Config) validate() error {
	switch db.NormalizeDriver(c.DB.Driver) {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("http addr required")
	}
	return nil
}

func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Mode:     c.LogMode,
		Redact:   c.LogRedaction,
		HashSalt: c.LogHashSalt,
	}
}

// DBServiceConfig resolves the DSN for the selected driver.
func (c Config) DBServiceConfig() db.Config {
	driver := db.NormalizeDriver(c.DB.Driver)
	dsn := strings.TrimSpace(c.DB.DSN)
	if dsn == "" {
		switch driver {
		case db.DriverPostgres:
			dsn = db.PostgresDSN(c.DB.PostgresHost, c.DB.PostgresPort, c.DB.PostgresUser, c.DB.PostgresPass, c.DB.PostgresName)
		default:
			dsn = c.DB.SQLitePath
		}
	}
	return db.Config{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    c.DB.MaxOpenConns,
		MaxIdleConns:    c.DB.MaxIdleConns,
		ConnMaxLifetime: c.DB.ConnMaxLifetime,
		SlowThreshold:   c.DB.SlowThreshold,
	}
}

func (c Config) GravatarConfig() gravatar.Config {
	return gravatar.Config{
		BaseURL: c.Avatar.BaseURL,
		Size:    c.Avatar.Size,
		Default: c.Avatar.Default,
		Timeout: c.Avatar.ProbeTimeout,
	}
}

func (c Config) EventBusConfig() redis.Config {
	return redis.Config{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Channel:  c.Redis.Channel,
	}
}
