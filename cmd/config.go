package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `validate:"oneof=development production test"`
	LogLevel string `validate:"oneof=debug info warn error"`
	HTTPPort string `validate:"required,numeric"`

	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBSslMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`

	// KafkaBrokers is empty when the service runs without a broker. The
	// courier consumer is then disabled and notifications are only logged.
	KafkaBrokers            []string `validate:"dive,hostname_port"`
	KafkaConsumerGroup      string   `validate:"required_with=KafkaBrokers"`
	KafkaCourierEventsTopic string   `validate:"required_with=KafkaBrokers"`
	KafkaNotificationsTopic string   `validate:"required_with=KafkaBrokers"`

	// PaymentWebhookSecret enables HMAC verification of payment callbacks.
	PaymentWebhookSecret string

	RetryMaxAttempts   int           `validate:"min=1,max=20"`
	StalePaymentWindow time.Duration `validate:"min=1m"`
	StalePaymentBatch  int           `validate:"min=1,max=500"`
	StalePaymentSpec   string        `validate:"required"`
	ReviewBacklogSpec  string        `validate:"required"`
}

// LoadConfig reads the configuration from the environment. Values from a
// .env file in the working directory fill variables that are not set.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errList []error
	cfg := Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", ""),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		KafkaBrokers:            splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaConsumerGroup:      getEnv("KAFKA_CONSUMER_GROUP", "order-service"),
		KafkaCourierEventsTopic: getEnv("KAFKA_COURIER_EVENTS_TOPIC", "courier-events"),
		KafkaNotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "order-notifications"),

		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		RetryMaxAttempts:   getInt("RETRY_MAX_ATTEMPTS", 5, &errList),
		StalePaymentWindow: getDuration("STALE_PAYMENT_WINDOW", 30*time.Minute, &errList),
		StalePaymentBatch:  getInt("STALE_PAYMENT_BATCH", 100, &errList),
		StalePaymentSpec:   getEnv("STALE_PAYMENT_CRON", "0 */5 * * * *"),
		ReviewBacklogSpec:  getEnv("REVIEW_BACKLOG_CRON", "*/30 * * * * *"),
	}
	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int, errList *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errList *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errList = append(*errList, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func splitList(csv string) []string {
	var out []string
	for _, item := range strings.Split(csv, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
