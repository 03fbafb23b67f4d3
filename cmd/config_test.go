package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DB_USER", "orders")
	t.Setenv("DB_NAME", "orders")
	t.Setenv("KAFKA_BROKERS", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.StalePaymentWindow)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "host=localhost port=5432 user=orders password= dbname=orders sslmode=disable", cfg.DSN())
}

func TestLoadConfig_FromEnvAndDotEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Cleanup(func() {
		_ = os.Unsetenv("HTTP_PORT")
		_ = os.Unsetenv("STALE_PAYMENT_WINDOW")
	})
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"),
		[]byte("HTTP_PORT=9090\nSTALE_PAYMENT_WINDOW=45m\n"), 0o600))
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 45*time.Minute, cfg.StalePaymentWindow)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing db user", "DB_USER", " "},
		{"bad port", "HTTP_PORT", "http"},
		{"bad duration", "STALE_PAYMENT_WINDOW", "soon"},
		{"window too short", "STALE_PAYMENT_WINDOW", "10s"},
		{"bad attempts", "RETRY_MAX_ATTEMPTS", "0"},
		{"bad env", "APP_ENV", "staging"},
		{"bad broker", "KAFKA_BROKERS", "not a broker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()

			assert.Error(t, err)
		})
	}
}
