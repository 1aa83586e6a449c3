package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Order store backends.
const (
	StorePostgres = "postgres"
	StoreREST     = "rest"
)

// Notification brokers.
const (
	BrokerMemory   = "memory"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

type Config struct {
	HTTPPort string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int

	OrderStore     string
	BackendURL     string
	BackendTimeout time.Duration

	ServiceIdentity     string
	ServiceAccessToken  string
	ServiceRefreshToken string

	NotifyBroker     string
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaGroupID     string
	RabbitMQURL      string
	RabbitMQExchange string

	ResyncSchedule string

	LogLevel       string
	AppEnv         string
	OtelExporter   string
	OtelSampleRate float64
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "local"
	}

	cfg := Config{
		HTTPPort:            env("HTTP_PORT", "8080"),
		DBHost:              env("DB_HOST", "localhost"),
		DBPort:              env("DB_PORT", "5432"),
		DBUser:              env("DB_USER", "postgres"),
		DBPassword:          getenv("DB_PASSWORD"),
		DBName:              env("DB_NAME", "orderflow"),
		DBSslMode:           env("DB_SSLMODE", "disable"),
		OrderStore:          env("ORDER_STORE", StorePostgres),
		BackendURL:          env("BACKEND_URL", ""),
		ServiceIdentity:     env("SERVICE_IDENTITY", ""),
		ServiceAccessToken:  getenv("SERVICE_ACCESS_TOKEN"),
		ServiceRefreshToken: getenv("SERVICE_REFRESH_TOKEN"),
		NotifyBroker:        env("NOTIFY_BROKER", BrokerMemory),
		KafkaTopic:          env("KAFKA_TOPIC", "order-status"),
		KafkaGroupID:        env("KAFKA_GROUP_ID", "orderflow-"+hostname),
		RabbitMQURL:         env("RABBITMQ_URL", ""),
		RabbitMQExchange:    env("RABBITMQ_EXCHANGE", "order-status"),
		ResyncSchedule:      env("RESYNC_SCHEDULE", ""),
		LogLevel:            env("LOG_LEVEL", "info"),
		AppEnv:              env("APP_ENV", "production"),
		OtelExporter:        env("OTEL_EXPORTER_URL", ""),
	}

	for _, b := range strings.Split(getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	var parseErrs []error
	var err error
	if cfg.DBMaxOpenConns, err = strconv.Atoi(env("DB_MAX_OPEN_CONNS", "10")); err != nil || cfg.DBMaxOpenConns <= 0 {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("DB_MAX_OPEN_CONNS", err))
	}
	if cfg.BackendTimeout, err = time.ParseDuration(env("BACKEND_TIMEOUT", "10s")); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("BACKEND_TIMEOUT", err))
	}
	if cfg.OtelSampleRate, err = strconv.ParseFloat(env("OTEL_SAMPLE_RATE", "1"), 64); err != nil {
		parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause("OTEL_SAMPLE_RATE", err))
	}

	if err = errors.Join(append(parseErrs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	var result []error

	switch c.OrderStore {
	case StorePostgres:
	case StoreREST:
		if c.BackendURL == "" {
			result = append(result, errs.NewValueIsRequiredError("BACKEND_URL"))
		}
	default:
		result = append(result, errs.NewValueIsInvalidErrorWithCause("ORDER_STORE",
			fmt.Errorf("%q is not one of %s, %s", c.OrderStore, StorePostgres, StoreREST)))
	}

	switch c.NotifyBroker {
	case BrokerMemory:
	case BrokerKafka:
		if len(c.KafkaBrokers) == 0 {
			result = append(result, errs.NewValueIsRequiredError("KAFKA_BROKERS"))
		}
	case BrokerRabbitMQ:
		if c.RabbitMQURL == "" {
			result = append(result, errs.NewValueIsRequiredError("RABBITMQ_URL"))
		}
	default:
		result = append(result, errs.NewValueIsInvalidErrorWithCause("NOTIFY_BROKER",
			fmt.Errorf("%q is not one of %s, %s, %s", c.NotifyBroker, BrokerMemory, BrokerKafka, BrokerRabbitMQ)))
	}

	if c.ServiceIdentity == "" {
		result = append(result, errs.NewValueIsRequiredError("SERVICE_IDENTITY"))
	}

	return errors.Join(result...)
}

// DSN is the libpq connection string for the order database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Development selects the console logger.
func (c Config) Development() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// ServiceCredentials are the credentials background workers present to the
// order store.
func (c Config) ServiceCredentials() ports.Credentials {
	return ports.Credentials{
		Identity:     c.ServiceIdentity,
		AccessToken:  c.ServiceAccessToken,
		RefreshToken: c.ServiceRefreshToken,
	}
}
