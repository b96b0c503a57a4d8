package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo      = "mongo"
	DriverPostgres   = "postgres"
	DriverClickHouse = "clickhouse"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" json:"-"`

	StoreDriver      string `envconfig:"STORE_DRIVER" default:"mongo"`
	DBHost           string `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string `envconfig:"DB_PORT"` // empty picks the driver's default port
	DBName           string `envconfig:"DB_NAME"`
	DBCollectionName string `envconfig:"DB_COLLECTION_NAME"`
	DBUser           string `envconfig:"DB_USER"`
	DBPassword       string `envconfig:"DB_PASSWORD" json:"-"`
	MongoURI         string `envconfig:"MONGO_URI" json:"-"`
	PostgresDSN      string `envconfig:"POSTGRES_DSN" json:"-"`

	HTTPEnabled bool   `envconfig:"HTTP_ENABLED" default:"true"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" json:"-"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogFile   string `envconfig:"LOG_FILE" default:"logs.log"`

	MaxBuckets int `envconfig:"MAX_BUCKETS" default:"100000"`
}

// Load reads the optional dotenv files (".env" when none are given) into the
// environment and then processes it. Variables already set win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.DBName == "" {
			return errors.New("DB_NAME is required for the mongo store")
		}
	case DriverPostgres, DriverClickHouse:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.DBCollectionName == "" {
		return errors.New("DB_COLLECTION_NAME is required")
	}
	if cfg.TelegramToken == "" && !cfg.HTTPEnabled {
		return errors.New("nothing to serve: set TELEGRAM_TOKEN or HTTP_ENABLED")
	}
	if cfg.MaxBuckets < 0 {
		return errors.New("MAX_BUCKETS must not be negative")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI, or one built from the DB_* settings.
func (cfg *Config) MongoConnectionURI() string {
	if cfg.MongoURI != "" {
		return cfg.MongoURI
	}
	u := url.URL{Scheme: "mongodb", Host: cfg.DBAddr()}
	if cfg.DBUser != "" {
		u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
	}
	return u.String()
}

// PostgresConnectionDSN returns POSTGRES_DSN, or one built from the DB_* settings.
func (cfg *Config) PostgresConnectionDSN() string {
	if cfg.PostgresDSN != "" {
		return cfg.PostgresDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     cfg.DBAddr(),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	if cfg.DBUser != "" {
		u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
	}
	return u.String()
}

var defaultPorts = map[string]string{
	DriverMongo:      "27017",
	DriverPostgres:   "5432",
	DriverClickHouse: "9000",
}

func (cfg *Config) DBAddr() string {
	port := cfg.DBPort
	if port == "" {
		port = defaultPorts[cfg.StoreDriver]
	}
	return net.JoinHostPort(cfg.DBHost, port)
}

func (cfg *Config) String() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "{}"
	}
	return string(data)
}
