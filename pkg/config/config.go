package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "dfsc"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	Sendgrid     SendgridConfig
	Checkout     CheckoutConfig
	Uploads      UploadsConfig
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
	Env          string `envconfig:"DFSC_APP_ENV" required:"true"`
	Port         string `envconfig:"DFSC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DFSC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DFSC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DFSC_DB_DSN"`
	Driver string `envconfig:"DFSC_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DFSC_DB_HOST"`
	Port     int    `envconfig:"DFSC_DB_PORT" default:"5432"`
	User     string `envconfig:"DFSC_DB_USER"`
	Password string `envconfig:"DFSC_DB_PASSWORD"`
	Name     string `envconfig:"DFSC_DB_NAME"`
	SSLMode  string `envconfig:"DFSC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DFSC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DFSC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DFSC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DFSC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DFSC_REDIS_URL"`
	Address      string        `envconfig:"DFSC_REDIS_ADDR"`
	Password     string        `envconfig:"DFSC_REDIS_PASSWORD"`
	DB           int           `envconfig:"DFSC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DFSC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DFSC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DFSC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DFSC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DFSC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"DFSC_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"DFSC_JWT_ISSUER" default:"dfsc-api"`
}

type StripeConfig struct {
	APIKey string `envconfig:"DFSC_STRIPE_API_KEY"`
	Secret string `envconfig:"DFSC_STRIPE_WEBHOOK_SECRET"`
	Env    string `envconfig:"DFSC_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type SendgridConfig struct {
	APIKey      string `envconfig:"DFSC_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"DFSC_SENDGRID_FROM_EMAIL" default:"orders@dhananjee.lk"`
	FromName    string `envconfig:"DFSC_SENDGRID_FROM_NAME" default:"Dhananjee Fruit & Sweet Centre"`
}

type CheckoutConfig struct {
	Currency        string        `envconfig:"DFSC_CHECKOUT_CURRENCY" default:"lkr"`
	SuccessURL      string        `envconfig:"DFSC_CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/checkout/success"`
	CancelURL       string        `envconfig:"DFSC_CHECKOUT_CANCEL_URL" default:"http://localhost:3000/checkout/cancel"`
	ProviderTimeout time.Duration `envconfig:"DFSC_CHECKOUT_PROVIDER_TIMEOUT" default:"15s"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"DFSC_UPLOADS_DIR" default:"uploads"`
	MaxUploadMB int    `envconfig:"DFSC_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DFSC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DFSC_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct{ env, val string }{
		{"DFSC_DB_HOST", db.Host},
		{"DFSC_DB_USER", db.User},
		{"DFSC_DB_NAME", db.Name},
	} {
		if pair.val == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either DFSC_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
