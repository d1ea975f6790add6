package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Stripe       StripeConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MUSTT_APP_ENV" required:"true"`
	Port         string `envconfig:"MUSTT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MUSTT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MUSTT_LOG_WARN_STACK" default:"false"`
	// SKUPrefix is the brand token leading every generated SKU.
	SKUPrefix      string   `envconfig:"MUSTT_SKU_PREFIX" default:"MUSTT"`
	AllowedOrigins []string `envconfig:"MUSTT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"MUSTT_DB_DSN"`
	SQLitePath string `envconfig:"MUSTT_DB_SQLITE_PATH" default:"mustt.db"`

	LegacyHost     string `envconfig:"MUSTT_DB_HOST"`
	LegacyPort     int    `envconfig:"MUSTT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MUSTT_DB_USER"`
	LegacyPassword string `envconfig:"MUSTT_DB_PASSWORD"`
	LegacyName     string `envconfig:"MUSTT_DB_NAME"`
	LegacySSLMode  string `envconfig:"MUSTT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MUSTT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MUSTT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MUSTT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MUSTT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// UseSQLite is copied from the feature flag so the db package only needs this section.
	UseSQLite bool `ignored:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MUSTT_REDIS_URL"`
	Address      string        `envconfig:"MUSTT_REDIS_ADDR"`
	Password     string        `envconfig:"MUSTT_REDIS_PASSWORD"`
	DB           int           `envconfig:"MUSTT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MUSTT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MUSTT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MUSTT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MUSTT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MUSTT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"MUSTT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MUSTT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MUSTT_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CacheConfig struct {
	ProductTTL      time.Duration `envconfig:"MUSTT_CACHE_PRODUCT_TTL" default:"5m"`
	IdempotencyTTL  time.Duration `envconfig:"MUSTT_IDEMPOTENCY_TTL" default:"24h"`
	WebhookEventTTL time.Duration `envconfig:"MUSTT_WEBHOOK_EVENT_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MUSTT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MUSTT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"MUSTT_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"MUSTT_GCP_CREDENTIALS_JSON"`
}

// Enabled reports whether a GCP project was configured for event publishing.
func (g GCPConfig) Enabled() bool {
	return strings.TrimSpace(g.ProjectID) != ""
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"MUSTT_PUBSUB_ORDERS_TOPIC" default:"mustt-orders"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"MUSTT_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"MUSTT_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"MUSTT_OUTBOX_MAX_ATTEMPTS" default:"10"`
	PublishTimeout time.Duration `envconfig:"MUSTT_OUTBOX_PUBLISH_TIMEOUT" default:"15s"`
	RetentionDays  int           `envconfig:"MUSTT_OUTBOX_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MUSTT_CRON_INTERVAL" default:"24h"`
	LockKey  string        `envconfig:"MUSTT_CRON_LOCK_KEY" default:"mustt:cron:lock"`
	LockTTL  time.Duration `envconfig:"MUSTT_CRON_LOCK_TTL" default:"1h"`
}

type StripeConfig struct {
	Secret    string        `envconfig:"MUSTT_STRIPE_WEBHOOK_SECRET"`
	Env       string        `envconfig:"MUSTT_STRIPE_ENV" default:"test"`
	Tolerance time.Duration `envconfig:"MUSTT_STRIPE_WEBHOOK_TOLERANCE" default:"5m"`
}

// Enabled reports whether webhook verification can be configured.
func (s StripeConfig) Enabled() bool {
	return strings.TrimSpace(s.Secret) != ""
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	db.UseSQLite = useSQLite
	if useSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
