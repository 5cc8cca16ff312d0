package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	Razorpay     RazorpayConfig
	Stripe       StripeConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADEKART_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADEKART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRADEKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADEKART_DB_DSN"`
	Driver string `envconfig:"TRADEKART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TRADEKART_DB_HOST"`
	Port     int    `envconfig:"TRADEKART_DB_PORT" default:"5432"`
	User     string `envconfig:"TRADEKART_DB_USER"`
	Password string `envconfig:"TRADEKART_DB_PASSWORD"`
	Name     string `envconfig:"TRADEKART_DB_NAME"`
	SSLMode  string `envconfig:"TRADEKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either TRADEKART_DB_DSN or host/user/name components are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEKART_REDIS_URL" required:"true"`
	Password     string        `envconfig:"TRADEKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TRADEKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRADEKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRADEKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CheckoutConfig carries the pricing constants applied at checkout time.
// Amounts are paise.
type CheckoutConfig struct {
	FlatShippingPaise     int64         `envconfig:"TRADEKART_CHECKOUT_FLAT_SHIPPING_PAISE" default:"15000"`
	TaxRateBasisPoints    int64         `envconfig:"TRADEKART_CHECKOUT_TAX_RATE_BP" default:"1000"`
	GatewayCommissionBP   int64         `envconfig:"TRADEKART_CHECKOUT_GATEWAY_COMMISSION_BP" default:"200"`
	MarkPaidTTL           time.Duration `envconfig:"TRADEKART_CHECKOUT_MARK_PAID_TTL" default:"24h"`
	OrderNumberPrefix     string        `envconfig:"TRADEKART_CHECKOUT_ORDER_NUMBER_PREFIX" default:"TK"`
	InstructionPayeeLabel string        `envconfig:"TRADEKART_CHECKOUT_PAYEE_LABEL" default:"TradeKart Supplier"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"TRADEKART_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"TRADEKART_RAZORPAY_KEY_SECRET"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"TRADEKART_STRIPE_API_KEY"`
	Env        string `envconfig:"TRADEKART_STRIPE_ENV" default:"test"`
	SuccessURL string `envconfig:"TRADEKART_STRIPE_SUCCESS_URL"`
	CancelURL  string `envconfig:"TRADEKART_STRIPE_CANCEL_URL"`
}

// Environment returns the configured stripe environment string.
func (s StripeConfig) Environment() string {
	return s.Env
}

type GCPConfig struct {
	ProjectID string `envconfig:"TRADEKART_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrderEventsTopic string `envconfig:"TRADEKART_PUBSUB_ORDER_EVENTS_TOPIC" default:"order-events"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"TRADEKART_OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval time.Duration `envconfig:"TRADEKART_OUTBOX_POLL_INTERVAL" default:"2s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADEKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADEKART_AUTO_MIGRATE" default:"false"`
}
