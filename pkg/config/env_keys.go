package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "AKAY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "AKAY_APP_ENV"
	EnvPort       = "AKAY_APP_PORT"
	EnvDBDSN      = "AKAY_DB_DSN"
	EnvDBHost     = "AKAY_DB_HOST"
	EnvDBUser     = "AKAY_DB_USER"
	EnvDBName     = "AKAY_DB_NAME"
	EnvRedisURL   = "AKAY_REDIS_URL"
	EnvJWTSecret  = "AKAY_JWT_SECRET"
	EnvJWTIssuer  = "AKAY_JWT_ISSUER"
	EnvJWTExpMins = "AKAY_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
