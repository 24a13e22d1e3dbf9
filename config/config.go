package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	HTTP       ServerConfig
	MySQL      MySQLConfig
	Log        LogConfig
	Stripe     StripeConfig
	Checkout   CheckoutConfig
	Webhook    WebhookConfig
	Auth       AuthConfig
	Migrations MigrationsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type StripeConfig struct {
	SecretKey                 string
	WebhookSecret             string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration
}

type CheckoutConfig struct {
	SuccessURL      string
	CancelURL       string
	MetadataSource  string
	RequestTimeout  time.Duration
	AuditWriteFatal bool
}

type WebhookConfig struct {
	AckOnReconcileError bool
}

type AuthConfig struct {
	UserInfoURL string
	HTTPTimeout time.Duration
}

type MigrationsConfig struct {
	Dir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "billing-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stripe: StripeConfig{
			SecretKey:                 getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:             getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SignatureToleranceSeconds: int64(getIntEnv("STRIPE_SIGNATURE_TOLERANCE_SECONDS", 300)),
			HTTPTimeout:               getSecondsEnv("STRIPE_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			SuccessURL:      getEnv("CHECKOUT_SUCCESS_URL", "https://kliqtmedia.co.uk/payment/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:       getEnv("CHECKOUT_CANCEL_URL", "https://kliqtmedia.co.uk/payment/cancelled"),
			MetadataSource:  getEnv("CHECKOUT_METADATA_SOURCE", "kliqt_website"),
			RequestTimeout:  getSecondsEnv("CHECKOUT_REQUEST_TIMEOUT_SECONDS", 15*time.Second),
			AuditWriteFatal: getBoolEnv("CHECKOUT_AUDIT_WRITE_FATAL", false),
		},
		Webhook: WebhookConfig{
			AckOnReconcileError: getBoolEnv("WEBHOOK_ACK_ON_RECONCILE_ERROR", true),
		},
		Auth: AuthConfig{
			UserInfoURL: getEnv("AUTH_USERINFO_URL", ""),
			HTTPTimeout: getSecondsEnv("AUTH_HTTP_TIMEOUT_SECONDS", 5*time.Second),
		},
		Migrations: MigrationsConfig{
			Dir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
