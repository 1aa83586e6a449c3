package cmd

import (
	"testing"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := configFromEnv(envOf(map[string]string{"SERVICE_IDENTITY": "board@pizza.local"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorePostgres, cfg.OrderStore)
	assert.Equal(t, BrokerMemory, cfg.NotifyBroker)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.InDelta(t, 1.0, cfg.OtelSampleRate, 0.0001)
	assert.Contains(t, cfg.KafkaGroupID, "orderflow-")
	assert.False(t, cfg.Development())
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=orderflow sslmode=disable", cfg.DSN())
}

func TestConfigFromEnv_KafkaAndREST(t *testing.T) {
	cfg, err := configFromEnv(envOf(map[string]string{
		"ORDER_STORE":           "rest",
		"BACKEND_URL":           "http://backend:8000",
		"BACKEND_TIMEOUT":       "3s",
		"NOTIFY_BROKER":         "kafka",
		"KAFKA_BROKERS":         "k1:9092, k2:9092,",
		"KAFKA_GROUP_ID":        "orderflow-a",
		"SERVICE_IDENTITY":      "board@pizza.local",
		"SERVICE_ACCESS_TOKEN":  "a",
		"SERVICE_REFRESH_TOKEN": "r",
		"APP_ENV":               "development",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "orderflow-a", cfg.KafkaGroupID)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.Development())
	assert.Equal(t, "a", cfg.ServiceCredentials().AccessToken)
}

func TestConfigFromEnv_MissingBackendSettings(t *testing.T) {
	_, err := configFromEnv(envOf(map[string]string{
		"ORDER_STORE":   "rest",
		"NOTIFY_BROKER": "rabbitmq",
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "BACKEND_URL")
	assert.Contains(t, err.Error(), "RABBITMQ_URL")
	assert.Contains(t, err.Error(), "SERVICE_IDENTITY")
}

func TestConfigFromEnv_InvalidValues(t *testing.T) {
	_, err := configFromEnv(envOf(map[string]string{
		"ORDER_STORE":       "sqlite",
		"NOTIFY_BROKER":     "nats",
		"DB_MAX_OPEN_CONNS": "lots",
		"SERVICE_IDENTITY":  "board@pizza.local",
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "ORDER_STORE")
	assert.Contains(t, err.Error(), "NOTIFY_BROKER")
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
}
