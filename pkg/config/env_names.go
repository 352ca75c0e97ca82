package config

// EnvPrefix is passed to envconfig; keys already carry the INVENTORY_
// prefix in their tags, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "INVENTORY_APP_ENV"
	EnvPort   = "INVENTORY_APP_PORT"

	EnvDBDSN  = "INVENTORY_DB_DSN"
	EnvDBHost = "INVENTORY_DB_HOST"
	EnvDBUser = "INVENTORY_DB_USER"
	EnvDBName = "INVENTORY_DB_NAME"

	EnvRedisURL = "INVENTORY_REDIS_URL"

	EnvJWTSecret  = "INVENTORY_JWT_SECRET"
	EnvJWTIssuer  = "INVENTORY_JWT_ISSUER"
	EnvJWTExpMins = "INVENTORY_JWT_EXPIRATION_MINUTES"
)

// legacyDBEnvVars are the discrete connection vars accepted when no DSN
// is set. Password and port are optional.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
