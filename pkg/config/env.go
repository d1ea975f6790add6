package config

const EnvPrefix = "MUSTT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "MUSTT_APP_ENV"
	EnvPort          = "MUSTT_APP_PORT"
	EnvDBDSN         = "MUSTT_DB_DSN"
	EnvDBHost        = "MUSTT_DB_HOST"
	EnvDBUser        = "MUSTT_DB_USER"
	EnvDBPassword    = "MUSTT_DB_PASSWORD"
	EnvDBName        = "MUSTT_DB_NAME"
	EnvUseSQLite     = "MUSTT_USE_SQLITE"
	EnvRedisURL      = "MUSTT_REDIS_URL"
	EnvJWTSecret     = "MUSTT_JWT_SECRET"
	EnvJWTIssuer     = "MUSTT_JWT_ISSUER"
	EnvCacheTTL      = "MUSTT_CACHE_PRODUCT_TTL"
	EnvStripeSecret  = "MUSTT_STRIPE_WEBHOOK_SECRET"
	EnvGCPProjectID  = "MUSTT_GCP_PROJECT_ID"
	EnvOrdersTopic   = "MUSTT_PUBSUB_ORDERS_TOPIC"
	EnvSKUPrefix     = "MUSTT_SKU_PREFIX"
	EnvAllowedOrigin = "MUSTT_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
