package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the service configuration loaded from config.toml
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	Auth            AuthConfig            `toml:"auth"`
	PropertyService PropertyServiceConfig `toml:"property_service"`
	RabbitMQ        RabbitMQConfig        `toml:"rabbitmq"`
	Scheduler       SchedulerConfig       `toml:"scheduler"`
	Booking         BookingConfig         `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN builds a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"` // text | json
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type PropertyServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type SchedulerConfig struct {
	CompleteStaysEnabled bool   `toml:"complete_stays_enabled"`
	CompleteStaysSpec    string `toml:"complete_stays_spec"` // cron spec with seconds
}

type BookingConfig struct {
	SerializableRetries int `toml:"serializable_retries"`
}

// Load reads an optional .env file, then path, then applies environment overrides
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used for keys missing from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "houserent-booking-service",
		},
		PropertyService: PropertyServiceConfig{
			Timeout: 5,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "bookings",
		},
		Scheduler: SchedulerConfig{
			CompleteStaysSpec: "0 0 1 * * *",
		},
		Booking: BookingConfig{
			SerializableRetries: 3,
		},
	}
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key string
		set func(string) error
	}{
		{"BOOKING_HTTP_PORT", intSetter(&c.Server.HTTPPort)},
		{"BOOKING_LOG_LEVEL", stringSetter(&c.Logs.Level)},
		{"BOOKING_LOG_FILE", stringSetter(&c.Logs.File)},
		{"BOOKING_LOG_FORMAT", stringSetter(&c.Logs.Format)},
		{"BOOKING_METRICS_ENABLED", boolSetter(&c.Metrics.Enabled)},
		{"BOOKING_JWT_SECRET", stringSetter(&c.Auth.JWTSecret)},
		{"BOOKING_PROPERTY_SERVICE_URL", stringSetter(&c.PropertyService.URL)},
		{"BOOKING_RABBITMQ_ENABLED", boolSetter(&c.RabbitMQ.Enabled)},
		{"BOOKING_RABBITMQ_URL", stringSetter(&c.RabbitMQ.URL)},
		{"BOOKING_COMPLETE_STAYS_ENABLED", boolSetter(&c.Scheduler.CompleteStaysEnabled)},
		{"DB_HOST", stringSetter(&c.Database.Host)},
		{"DB_PORT", intSetter(&c.Database.Port)},
		{"DB_USER", stringSetter(&c.Database.User)},
		{"DB_PASSWORD", stringSetter(&c.Database.Password)},
		{"DB_NAME", stringSetter(&c.Database.DBName)},
		{"DB_SSLMODE", stringSetter(&c.Database.SSLMode)},
	}

	for _, o := range overrides {
		value, ok := os.LookupEnv(o.key)
		if !ok || value == "" {
			continue
		}
		if err := o.set(value); err != nil {
			return fmt.Errorf("env %s: %w", o.key, err)
		}
	}
	return nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.dbname and database.user are required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if c.PropertyService.URL == "" {
		problems = append(problems, "property_service.url is required")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		problems = append(problems, "rabbitmq.url is required when rabbitmq is enabled")
	}
	if c.Scheduler.CompleteStaysEnabled && c.Scheduler.CompleteStaysSpec == "" {
		problems = append(problems, "scheduler.complete_stays_spec is required when the job is enabled")
	}
	if c.Logs.Format != "text" && c.Logs.Format != "json" {
		problems = append(problems, "logs.format must be text or json")
	}
	if c.Booking.SerializableRetries <= 0 {
		problems = append(problems, "booking.serializable_retries must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func stringSetter(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}
