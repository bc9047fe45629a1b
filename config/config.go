package config

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Log      LogConfig
		Dataset  DatasetConfig
		Source   SourceConfig
		Cache    CacheConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
	}

	ServerConfig struct {
		Host string `env:"SERVER_HOST" default:"0.0.0.0"`
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"DEBUG"`
	}

	// DatasetConfig pins which month is served and how it is sampled.
	DatasetConfig struct {
		Year       int           `env:"DATASET_YEAR" default:"2024"`
		Month      int           `env:"DATASET_MONTH" default:"1"`
		SampleSize int           `env:"DATASET_SAMPLE_SIZE" default:"50000"`
		TTL        time.Duration `env:"DATASET_TTL" default:"6h"`
	}

	SourceConfig struct {
		Mode string `env:"SOURCE_MODE" default:"tlc"` // tlc | postgres

		// Open-data CSV endpoint and the local raw-file cache.
		BaseURL         string        `env:"SOURCE_TLC_BASE_URL" default:"https://d37ci6vzurychx.cloudfront.net/trip-data"`
		RawDir          string        `env:"SOURCE_TLC_RAW_DIR" default:"data/raw"`
		DownloadTimeout time.Duration `env:"SOURCE_TLC_DOWNLOAD_TIMEOUT" default:"5m"`
	}

	CacheConfig struct {
		Enabled bool   `env:"CACHE_ENABLED" default:"true"`
		Path    string `env:"CACHE_PATH" default:"data/cache.db"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"taxipulse_user"`
		Password string `env:"DATABASE_PASSWORD" default:"taxipulse_pass"`
		Database string `env:"DATABASE_DATABASE" default:"taxipulse_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`         // максимум открытых соединений
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`          // минимум соединений в пуле
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"` // макс. "время жизни" соединения
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`  // макс. "время простоя" соединения
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// Period renders the configured month as "YYYY-MM".
func (c DatasetConfig) Period() string {
	return fmt.Sprintf("%04d-%02d", c.Year, c.Month)
}

// SourceMode returns the validated source mode.
func (c SourceConfig) SourceMode() (types.SourceMode, error) {
	switch types.SourceMode(c.Mode) {
	case types.SourceTLC:
		return types.SourceTLC, nil
	case types.SourcePostgres:
		return types.SourcePostgres, nil
	default:
		return "", fmt.Errorf("invalid source mode: %q", c.Mode)
	}
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if cfg.Dataset.Month < 1 || cfg.Dataset.Month > 12 {
		return nil, fmt.Errorf("invalid dataset month: %d", cfg.Dataset.Month)
	}
	if _, err := cfg.Source.SourceMode(); err != nil {
		return nil, err
	}

	return cfg, nil
}
