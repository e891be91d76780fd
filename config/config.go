package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Temutjin2k/carpool-admin/pkg/configparser"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Backend  BackendConfig
		Resolver ResolverConfig
		RabbitMQ RabbitMQConfig
		Report   ReportConfig
		Log      LogConfig
	}

	ServerConfig struct {
		Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
		Port            string        `env:"SERVER_PORT" default:"3004"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	}

	BackendConfig struct {
		URL     string        `env:"BACKEND_URL" default:"http://localhost:5000"`
		Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"10s"`
	}

	ResolverConfig struct {
		Concurrency int `env:"RESOLVER_CONCURRENCY" default:"8"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"admin_topic"`
	}

	// ReportConfig holds the calendar used for month buckets and report filters.
	ReportConfig struct {
		Timezone string `env:"REPORT_TIMEZONE" default:"UTC"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}
)

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
	)
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Location resolves the configured timezone.
func (c ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: BACKEND_URL must be an absolute url, got %q", ErrInvalidConfig, c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: BACKEND_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.Resolver.Concurrency < 1 {
		return fmt.Errorf("%w: RESOLVER_CONCURRENCY must be at least 1", ErrInvalidConfig)
	}
	if !logger.ValidateLogLevel(c.Log.Level) {
		return fmt.Errorf("%w: LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR", ErrInvalidConfig)
	}
	if _, err := c.Report.Location(); err != nil {
		return fmt.Errorf("%w: REPORT_TIMEZONE: %v", ErrInvalidConfig, err)
	}
	return nil
}
